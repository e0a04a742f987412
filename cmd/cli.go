package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/darkhz/bluezero/bluez"
	"github.com/darkhz/bluezero/config"
)

// These values are set at compile-time.
var (
	Version  = ""
	Revision = ""
)

// connectBus opens the connection to the Bluez daemon.
var connectBus = bluez.Connect

// Run runs the commandline application.
func Run() error {
	return newApp().Run(os.Args)
}

// newApp returns a new commandline application.
func newApp() *cli.App {
	cli.VersionPrinter = func(cCtx *cli.Context) {
		fmt.Fprintf(cCtx.App.Writer, "%s (%s)\n", Version, Revision)
	}

	return &cli.App{
		Name:                   "bluezero",
		Usage:                  "Bluetooth LE helper.",
		Version:                Version + " (" + Revision + ")",
		Description:            "Encode Eddystone-URL frames and GATT values, and look up Bluez adapters and devices.",
		Copyright:              "(c) bluezero authors.",
		Compiled:               time.Now(),
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Suggest:                true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "adapter",
				Aliases: []string{"a"},
				EnvVars: []string{"BLUEZERO_ADAPTER"},
				Usage:   "Specify an adapter to use, by name or address. (For example, hci0)",
			},
			&cli.IntFlag{
				Name:    "frame-type",
				Aliases: []string{"f"},
				EnvVars: []string{"BLUEZERO_FRAME_TYPE"},
				Usage:   "Specify the Eddystone frame type byte. (Default 0x10)",
			},
			&cli.IntFlag{
				Name:    "tx-power",
				Aliases: []string{"p"},
				EnvVars: []string{"BLUEZERO_TX_POWER"},
				Usage:   "Specify the calibrated tx power at 0m, from -128 to 255. (Default 0xFF)",
			},
			&cli.BoolFlag{
				Name:    "strict",
				Aliases: []string{"s"},
				EnvVars: []string{"BLUEZERO_STRICT"},
				Usage:   "Reject URLs without a known scheme, and GATT values of the wrong length.",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				EnvVars: []string{"BLUEZERO_VERBOSE"},
				Usage:   "Log Bluez lookups.",
			},
			&cli.BoolFlag{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "Generate configuration.",
				Action: func(cliCtx *cli.Context, _ bool) error {
					k, cfg := koanf.New("."), config.NewConfig()
					if err := cfg.Load(k, cliCtx); err != nil {
						return err
					}

					return cfg.GenerateAndSave(k)
				},
			},
		},
		Commands: []*cli.Command{
			eddystoneURLCommand(),
			eddystoneDecodeCommand(),
			uint16Command(),
			adaptersCommand(),
			findAdapterCommand(),
			findDeviceCommand(),
			managersCommand(),
		},
		Action: func(cliCtx *cli.Context) error {
			if cliCtx.Bool("generate") {
				return nil
			}

			return cli.ShowAppHelp(cliCtx)
		},
		ExitErrHandler: func(_ *cli.Context, err error) {
			if err == nil {
				return
			}

			printError(err)
		},
	}
}

// loadConfig loads and validates the configuration.
func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	k, cfg := koanf.New("."), config.NewConfig()
	if err := cfg.Load(k, cliCtx); err != nil {
		return nil, err
	}

	if err := cfg.ValidateValues(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// connect loads the configuration and connects to the Bluez daemon.
func connect(cliCtx *cli.Context) (*config.Config, *bluez.Conn, error) {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetOutput(cliCtx.App.ErrWriter)
	log.SetLevel(logrus.WarnLevel)
	if cfg.Values.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	conn, err := connectBus(log)
	if err != nil {
		return nil, nil, err
	}

	return cfg, conn, nil
}
