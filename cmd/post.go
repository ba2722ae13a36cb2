package cmd

import (
	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/BatikanHyt/ordertrack/pkg/helpers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:     "post [URI]",
	Short:   "Post a batch of orders to URI",
	Long:    "Post every order to URI concurrently and merge the 200 responses into the ledger file",
	PreRunE: validatePostArgs,
	RunE:    runPostCmd,
}

var validVersions = []string{"1.1", "2"}

var postArgs = struct {
	Orders map[string]int
	Target config.TargetConfig
	Ledger config.LedgerConfig
}{}

func init() {
	postCmd.Flags().StringToIntVarP(&postArgs.Orders, "order", "o", map[string]int{}, "Orders in name=quantity format and comma(,) separated, defaults to the produce batch")
	postCmd.Flags().StringToStringVarP(&postArgs.Target.Headers, "headers", "H", map[string]string{}, "Headers in key=value format and comma(,) separated")
	postCmd.Flags().StringVar(&postArgs.Target.Version, "http_version", "1.1", "HTTP version 1.1 or 2")
	postCmd.Flags().DurationVar(&postArgs.Target.ConnectTimeout, "connect_timeout", config.DefaultConnectTimeout, "Connect timeout")
	postCmd.Flags().DurationVar(&postArgs.Target.RequestTimeout, "request_timeout", 0, "Whole request timeout, 0 waits forever")
	postCmd.Flags().BoolVar(&postArgs.Target.KeepAlive, "keep_alive", true, "Toggle keep-alive, --keep_alive=[true|false]")
	postCmd.Flags().BoolVar(&postArgs.Target.Compression, "compression", false, "Toggle compression --compression=[true|false]")
	postCmd.Flags().BoolVar(&postArgs.Target.Redirect, "redirect", false, "Toggle redirect --redirect=[true|false]")
	postCmd.Flags().StringVar(&postArgs.Ledger.Path, "ledger", config.DefaultLedgerPath, "JSON file collecting accepted responses")
	postCmd.Flags().StringVar(&postArgs.Ledger.ScratchDir, "scratch_dir", "", "Directory for per-request scratch files, defaults to the system temp dir")
	postCmd.Flags().BoolVar(&postArgs.Ledger.KeepScratch, "keep_scratch", false, "Keep merged scratch files after the run")
	rootCmd.AddCommand(postCmd)
}

func validatePostArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errors.New("need to define target URI")
	}
	if !helpers.Contains(validVersions, postArgs.Target.Version) {
		return errors.Errorf("invalid HTTP version %s. Valid versions: %v", postArgs.Target.Version, validVersions)
	}
	return nil
}

func runPostCmd(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	target := postArgs.Target
	target.URL = args[0]
	ledgerCfg := postArgs.Ledger
	cfg.Target = &target
	cfg.Ledger = &ledgerCfg
	if len(postArgs.Orders) > 0 {
		cfg.Orders = postArgs.Orders
	}
	applyRootFlags(cmd, cfg)
	return runBatch(cmd.Context(), cfg)
}
