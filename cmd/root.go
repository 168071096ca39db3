/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/josephgoksu/qutimport/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// quiet suppresses the summary block and reports.
	quiet bool
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qutimport",
	Short: "qutimport converts legacy instant messenger histories to the qutIM archive.",
	Long: `qutimport converts chat histories exported by Miranda, CenterICQ, QIP,
Skype and phone SMS backups into the qutIM JSON history layout:

  <dst>/history/<protocol>.<account>/<contact>.<YYYYMM>.json

Always write into an empty directory and merge the result into a qutIM
profile afterwards; writes are not transactional.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		HandleFatalError(userMessage(err), err)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the qutimport version",
	Long: `Print the qutimport version. With --crash-logs, also list the crash logs
kept under <dir>/.qutimport/crash_logs, where <dir> is the --dst of the
failed run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("qutimport %s\n", version)
		dir, _ := cmd.Flags().GetString("crash-logs")
		if dir == "" {
			return nil
		}
		logger.SetBasePath(filepath.Join(dir, ".qutimport"))
		logs, err := logger.ListCrashLogs()
		if err != nil {
			return fmt.Errorf("list crash logs: %w", err)
		}
		for _, l := range logs {
			cmd.Println(l)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.qutimport.yaml or $HOME/.qutimport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress summary and report output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	versionCmd.Flags().String("crash-logs", "", "list crash logs left in this destination directory")
	rootCmd.AddCommand(versionCmd)
}
