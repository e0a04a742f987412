package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/darkhz/bluezero/api/datatypes"
	"github.com/darkhz/bluezero/api/eddystone"
)

// eddystoneURLCommand returns the command to encode a URL into an Eddystone-URL frame.
func eddystoneURLCommand() *cli.Command {
	return &cli.Command{
		Name:      "eddystone-url",
		Aliases:   []string{"url"},
		Usage:     "Encode a URL into Eddystone-URL service data.",
		ArgsUsage: "URL",
		Action: func(cliCtx *cli.Context) error {
			url, err := requireArg(cliCtx, "URL")
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cliCtx)
			if err != nil {
				return err
			}

			encoder := eddystone.Encoder{Strict: cfg.Values.Strict}
			frame, err := encoder.Encode(url, cfg.Values.FrameTypeByte, cfg.Values.TxPowerByte)
			if err != nil {
				return err
			}

			printFields(cliCtx.App.Writer, [][2]string{
				{"Service UUID", eddystone.ServiceUUID.String()},
				{"Frame", frame.String()},
				{"Hex", frame.Hex()},
				{"Length", strconv.Itoa(len(frame))},
			})

			if len(frame) > eddystone.MaxURLFrameLength {
				printWarn(fmt.Sprintf("the frame is %d bytes long, only %d bytes fit in an advertisement",
					len(frame), eddystone.MaxURLFrameLength,
				))
			}

			return nil
		},
	}
}

// eddystoneDecodeCommand returns the command to expand an Eddystone-URL frame.
func eddystoneDecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "eddystone-decode",
		Usage:     "Decode Eddystone-URL service data into a URL.",
		ArgsUsage: "HEX",
		Action: func(cliCtx *cli.Context) error {
			frame, err := hexArg(cliCtx)
			if err != nil {
				return err
			}

			url, frameType, txPower, err := eddystone.DecodeURL(frame)
			if err != nil {
				return err
			}

			printFields(cliCtx.App.Writer, [][2]string{
				{"URL", url},
				{"Frame type", fmt.Sprintf("%#02x", frameType)},
				{"Tx power", fmt.Sprintf("%d dBm", int8(txPower))},
			})

			return nil
		},
	}
}

// uint16Command returns the command to convert GATT uint16 values.
func uint16Command() *cli.Command {
	return &cli.Command{
		Name:  "uint16",
		Usage: "Convert between integers and little-endian GATT uint16 values.",
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode an integer.",
				ArgsUsage: "N",
				Action: func(cliCtx *cli.Context) error {
					arg, err := requireArg(cliCtx, "N")
					if err != nil {
						return err
					}

					n, err := strconv.ParseInt(arg, 0, 64)
					if err != nil {
						return fmt.Errorf("%s is not an integer: %w", arg, err)
					}

					b, err := datatypes.EncodeUint16(int(n))
					if err != nil {
						return err
					}

					fmt.Fprintf(cliCtx.App.Writer, "% x\n", b)

					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode little-endian bytes.",
				ArgsUsage: "HEX",
				Action: func(cliCtx *cli.Context) error {
					b, err := hexArg(cliCtx)
					if err != nil {
						return err
					}

					cfg, err := loadConfig(cliCtx)
					if err != nil {
						return err
					}

					var n uint64
					if cfg.Values.Strict {
						var v uint16

						v, err = datatypes.DecodeUint16Strict(b)
						n = uint64(v)
					} else {
						n, err = datatypes.DecodeUint16(b)
					}
					if err != nil {
						return err
					}

					fmt.Fprintln(cliCtx.App.Writer, n)

					return nil
				},
			},
		},
	}
}

// adaptersCommand returns the command to list the adapters.
func adaptersCommand() *cli.Command {
	return &cli.Command{
		Name:    "adapters",
		Aliases: []string{"l"},
		Usage:   "List available adapters.",
		Action: func(cliCtx *cli.Context) error {
			_, conn, err := connect(cliCtx)
			if err != nil {
				return err
			}
			defer conn.Close()

			adapters, err := conn.Adapters(cliCtx.Context)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(adapters))
			for _, adapter := range adapters {
				powered := "no"
				if adapter.Powered {
					powered = "yes"
				}

				rows = append(rows, []string{
					string(adapter.Path), adapter.Name, adapter.Alias, adapter.Address, powered,
				})
			}

			printTable(cliCtx.App.Writer, []string{"path", "name", "alias", "address", "powered"}, rows)

			return nil
		},
	}
}

// findAdapterCommand returns the command to find an adapter.
func findAdapterCommand() *cli.Command {
	return &cli.Command{
		Name:      "find-adapter",
		Usage:     "Find an adapter by name, path suffix or address.",
		ArgsUsage: "[PATTERN]",
		Action: func(cliCtx *cli.Context) error {
			cfg, conn, err := connect(cliCtx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if cliCtx.Args().Present() {
				cfg.Values.Adapter = cliCtx.Args().First()
			}

			if err := cfg.ValidateSessionValues(conn); err != nil {
				return err
			}

			fmt.Fprintln(cliCtx.App.Writer, cfg.Values.SelectedAdapter.Path())

			return nil
		},
	}
}

// findDeviceCommand returns the command to find a device.
func findDeviceCommand() *cli.Command {
	return &cli.Command{
		Name:      "find-device",
		Usage:     "Find a device by address, within the selected adapter if one is set.",
		ArgsUsage: "ADDRESS",
		Action: func(cliCtx *cli.Context) error {
			address, err := requireArg(cliCtx, "ADDRESS")
			if err != nil {
				return err
			}

			cfg, conn, err := connect(cliCtx)
			if err != nil {
				return err
			}
			defer conn.Close()

			device, err := conn.FindDevice(cliCtx.Context, address, cfg.Values.Adapter)
			if err != nil {
				return err
			}

			fmt.Fprintln(cliCtx.App.Writer, device.Path())

			return nil
		},
	}
}

// managersCommand returns the command to find the GATT and LE advertising managers.
func managersCommand() *cli.Command {
	return &cli.Command{
		Name:  "managers",
		Usage: "Show the objects implementing the GATT and LE advertising managers.",
		Action: func(cliCtx *cli.Context) error {
			_, conn, err := connect(cliCtx)
			if err != nil {
				return err
			}
			defer conn.Close()

			type lookup struct {
				name string
				find func(context.Context) (dbus.ObjectPath, bool, error)
				path string
			}

			lookups := []*lookup{
				{name: "GATT manager", find: conn.FindGattAdapter},
				{name: "Advertising manager", find: conn.FindAdvertisingAdapter},
			}

			g, ctx := errgroup.WithContext(cliCtx.Context)
			for _, l := range lookups {
				g.Go(func() error {
					path, ok, err := l.find(ctx)
					if err != nil {
						return err
					}

					l.path = "not found"
					if ok {
						l.path = string(path)
					}

					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			fields := make([][2]string, 0, len(lookups))
			for _, l := range lookups {
				fields = append(fields, [2]string{l.name, l.path})
			}
			printFields(cliCtx.App.Writer, fields)

			return nil
		},
	}
}

// requireArg returns the first positional argument.
func requireArg(cliCtx *cli.Context, name string) (string, error) {
	if !cliCtx.Args().Present() {
		return "", fmt.Errorf("%s: argument %s is required", cliCtx.Command.Name, name)
	}

	return cliCtx.Args().First(), nil
}

// hexArg decodes the first positional argument as hexadecimal bytes.
// Spaces, colons and a leading "0x" are ignored.
func hexArg(cliCtx *cli.Context) ([]byte, error) {
	arg, err := requireArg(cliCtx, "HEX")
	if err != nil {
		return nil, err
	}

	arg = strings.TrimPrefix(strings.ToLower(arg), "0x")
	arg = strings.NewReplacer(" ", "", ":", "").Replace(arg)

	b, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid hexadecimal value %q: %w", arg, err)
	}

	return b, nil
}
