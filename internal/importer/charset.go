package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding label is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves a WHATWG encoding label such as "windows-1251".
func LookupEncoding(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownEncoding, label)
	}
	return enc, nil
}

// readText reads a whole file transcoded to UTF-8.
func readText(fs afero.Fs, path, label string) (string, error) {
	enc, err := LookupEncoding(label)
	if err != nil {
		return "", err
	}
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(data), nil
}

// newXMLDecoder returns a decoder that honours the document's declared charset.
func newXMLDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		enc, err := LookupEncoding(label)
		if err != nil {
			return nil, err
		}
		return transform.NewReader(input, enc.NewDecoder()), nil
	}
	return d
}
