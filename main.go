package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/duelvault/escrow-core/internal/pkg/accountability"
	"github.com/duelvault/escrow-core/internal/pkg/api"
	"github.com/duelvault/escrow-core/internal/pkg/common"
	"github.com/duelvault/escrow-core/internal/pkg/escrow"
	"github.com/duelvault/escrow-core/internal/pkg/stealth"
	"github.com/duelvault/escrow-core/internal/pkg/transfer"
	"github.com/samber/do/v2"

	"github.com/urfave/cli/v3"
)

type EscrowCoreService struct {
	EchoService *common.EchoService `do:""`

	APIService *api.Service `do:""`
}

func runServer(_ context.Context, cmd *cli.Command) error {
	i := do.New()

	do.ProvideNamedValue(i, "port", cmd.Int("port"))
	do.ProvideNamedValue(i, "tmp-dir", cmd.String("tmp-dir"))

	do.ProvideNamedValue(i, "escrow-wallet-secret", cmd.String("escrow-wallet-secret"))
	do.ProvideNamedValue(i, "treasury-wallet-secret", cmd.String("treasury-wallet-secret"))
	do.ProvideNamedValue(i, "server-authority-secret", cmd.String("server-authority-secret"))
	do.ProvideNamedValue(i, "wallet-pepper", cmd.String("wallet-pepper"))
	do.ProvideNamedValue(i, "internal-api-key", cmd.String("internal-api-key"))
	do.ProvideNamedValue(i, "house-fee-percent", cmd.Int("house-fee-percent"))
	do.ProvideNamedValue(i, "escrow-timeout-seconds", cmd.Int("escrow-timeout-seconds"))
	do.ProvideNamedValue(i, "transfer-backend-base-url", cmd.String("transfer-backend-base-url"))
	do.ProvideNamedValue(i, "ledger-anchor-base-url", cmd.String("ledger-anchor-base-url"))
	do.ProvideNamedValue(i, "network-tag", cmd.String("network-tag"))

	do.Provide(i, common.NewLogger)
	do.Provide(i, common.NewConfig)

	do.Provide(i, common.NewEchoService)
	do.Provide(i, stealth.NewService)
	do.Provide(i, transfer.NewService)
	do.Provide(i, accountability.NewService)
	do.Provide(i, escrow.NewService)
	do.Provide(i, api.NewService)

	do.Provide(i, do.InvokeStruct[EscrowCoreService])

	coreService, err := do.Invoke[EscrowCoreService](i)
	if err != nil {
		return fmt.Errorf("failed to assemble escrow core: %w", err)
	}

	coreService.APIService.Engine.Start()

	//nolint:wrapcheck
	return coreService.EchoService.Start()
}

func main() {
	//nolint:exhaustruct
	cmd := &cli.Command{
		Name: "escrow-core",
		Commands: []*cli.Command{
			{
				Name: "server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Value:   3000, //nolint:mnd
						Sources: cli.EnvVars("ESCROW_PORT"),
					},
					&cli.StringFlag{
						Name:    "tmp-dir",
						Value:   "./escrow-core/tmp",
						Sources: cli.EnvVars("ESCROW_TMP_DIR"),
					},
					&cli.StringFlag{
						Name:    "escrow-wallet-secret",
						Sources: cli.EnvVars("ESCROW_WALLET_SECRET"),
					},
					&cli.StringFlag{
						Name:    "treasury-wallet-secret",
						Sources: cli.EnvVars("TREASURY_WALLET_SECRET"),
					},
					&cli.StringFlag{
						Name:    "server-authority-secret",
						Sources: cli.EnvVars("SERVER_AUTHORITY_SECRET"),
					},
					&cli.StringFlag{
						Name:    "wallet-pepper",
						Sources: cli.EnvVars("WALLET_PEPPER"),
					},
					&cli.StringFlag{
						Name:    "internal-api-key",
						Sources: cli.EnvVars("INTERNAL_API_KEY"),
					},
					&cli.IntFlag{
						Name:    "house-fee-percent",
						Value:   2, //nolint:mnd
						Sources: cli.EnvVars("HOUSE_FEE_PERCENT"),
					},
					&cli.IntFlag{
						Name:    "escrow-timeout-seconds",
						Value:   1800, //nolint:mnd
						Sources: cli.EnvVars("ESCROW_TIMEOUT_SECONDS"),
					},
					&cli.StringFlag{
						Name:    "transfer-backend-base-url",
						Value:   "http://localhost:8787",
						Sources: cli.EnvVars("TRANSFER_BACKEND_BASE_URL"),
					},
					&cli.StringFlag{
						Name:    "ledger-anchor-base-url",
						Value:   "http://localhost:8788",
						Sources: cli.EnvVars("LEDGER_ANCHOR_BASE_URL"),
					},
					&cli.StringFlag{
						Name:    "network-tag",
						Value:   "devnet",
						Sources: cli.EnvVars("ESCROW_NETWORK_TAG"),
					},
				},
				Action: runServer,
			},
		},
		DefaultCommand: "server",
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
