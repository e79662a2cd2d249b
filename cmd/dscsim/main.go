package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DomeLiquid/dsc/config"
	"github.com/DomeLiquid/dsc/core"
	"github.com/spf13/cobra"
)

const defaultConfig = `
collaterals:
  - assetId: 43d61dcd-e413-450d-80b8-101d5e903357
    symbol: WETH
    decimals: 18
    priceFeedId: eth-usd
    initialPrice: "2000"
  - assetId: c6d0c728-2624-429b-8e0d-d9d19b6592fa
    symbol: WBTC
    decimals: 8
    priceFeedId: btc-usd
    initialPrice: "60000"
`

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:          "dscsim",
		Short:        "Runs the collateral engine against simulated ledgers and price feeds",
		SilenceUsage: true,
	}
	c.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a yaml config; a two asset default is used when empty")
	c.AddCommand(paramsCommand(), scenarioCommand())
	return c
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Parse([]byte(defaultConfig))
	}
	return config.Load(configPath)
}

func paramsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Prints the liquidation parameters and registered collateral",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			assets := make([]*core.CollateralAsset, 0, registry.Len())
			for _, id := range registry.AssetIds() {
				asset, _ := registry.Get(id)
				assets = append(assets, asset)
			}
			return printJSON(c, map[string]any{
				"liquidation":   core.GetLiquidationParams(),
				"oracleTimeout": cfg.Oracle.Timeout.String(),
				"collaterals":   assets,
			})
		},
	}
}

func printJSON(c *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.OutOrStdout(), string(data))
	return err
}
