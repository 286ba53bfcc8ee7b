package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"urc/config"
	"urc/models"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "urc",
		Short:         "Client for the URC JKN pengajuan web app",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.opts.webAppURL, "url", config.DefaultWebAppURL, "web app endpoint")
	flags.StringVar(&a.opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.opts.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(
		testCmd(a),
		checkCmd(a),
		saveCmd(a),
		updateCmd(a),
		listCmd(a),
		relawanCmd(a),
		relawanListCmd(a),
		serveCmd(a),
	)

	return rootCmd
}

func testCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Print the web app connectivity test result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.gateway.TestConnection(cmd.Context()))
			return err
		},
	}
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Exit non-zero unless the web app reports it is connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.gateway.TestSystem(cmd.Context()) {
				a.notifier.Notify("Tidak dapat terhubung ke server", models.NotifyError)
				return errors.New("web app is not connected")
			}
			a.notifier.Notify("Terhubung ke server", models.NotifySuccess)
			return nil
		},
	}
}

func saveCmd(a *app) *cobra.Command {
	var fields []string
	var rawJSON string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Submit a new pengajuan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := buildRecord(rawJSON, fields)
			if err != nil {
				return err
			}

			a.notifier.Loading(true, "Menyimpan pengajuan...")
			env, err := a.gateway.SavePengajuan(cmd.Context(), data)
			a.notifier.Loading(false, "")
			if err != nil {
				a.notifier.Notify("Gagal menyimpan pengajuan: "+err.Error(), models.NotifyError)
				return err
			}

			a.notifier.Notify("Pengajuan berhasil disimpan", models.NotifySuccess)
			return printEnvelope(cmd.OutOrStdout(), env)
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "record field as key=value (repeatable)")
	cmd.Flags().StringVar(&rawJSON, "json", "", "record as a JSON object")
	return cmd
}

func updateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <status> [alasan]",
		Short: "Change the status of a pengajuan",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			alasan := ""
			if len(args) == 3 {
				alasan = args[2]
			}

			a.notifier.Loading(true, "Memperbarui status...")
			env, err := a.gateway.UpdateStatus(cmd.Context(), args[0], args[1], alasan)
			a.notifier.Loading(false, "")
			if err != nil {
				a.notifier.Notify("Gagal memperbarui status: "+err.Error(), models.NotifyError)
				return err
			}

			a.notifier.Notify("Status pengajuan "+args[0]+" diperbarui", models.NotifySuccess)
			return printEnvelope(cmd.OutOrStdout(), env)
		},
	}
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every pengajuan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), a.gateway.GetAllData(cmd.Context()))
		},
	}
}

func relawanCmd(a *app) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "relawan <name>",
		Short: "Print the pengajuan of a relawan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			switch mode {
			case "server":
				return printJSON(cmd.OutOrStdout(), a.gateway.GetDataByRelawan(ctx, name))
			case "backup":
				return printJSON(cmd.OutOrStdout(), a.gateway.GetDataByRelawanBackup(ctx, name))
			case "debug":
				return printJSON(cmd.OutOrStdout(), a.gateway.DebugRelawan(ctx, name))
			case "enhanced":
				res := a.gateway.Resolve(ctx, name)
				a.logger.Info("relawan resolved", "relawan", name, "source", res.Source)
				if !res.Envelope.HasData() {
					a.notifier.Notify("Belum ada pengajuan untuk "+name, models.NotifyWarning)
				}
				return printJSON(cmd.OutOrStdout(), res.Envelope)
			default:
				return errors.Errorf("unknown mode %q", mode)
			}
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "enhanced", "lookup mode (server, backup, enhanced, debug)")
	return cmd
}

func relawanListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "relawan-list",
		Short: "Print the distinct relawan names in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.gateway.ListRelawan(cmd.Context())
			return printJSON(cmd.OutOrStdout(), models.RelawanList{
				Status: models.StatusSuccess,
				Data:   names,
				Total:  len(names),
			})
		},
	}
}

// buildRecord merges a JSON object with key=value fields; fields win
func buildRecord(rawJSON string, fields []string) (models.Record, error) {
	data := models.Record{}

	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &data); err != nil {
			return nil, errors.Wrap(err, "invalid --json value")
		}
		if data == nil {
			return nil, errors.New("--json must be a JSON object")
		}
	}

	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Errorf("invalid --field %q, want key=value", field)
		}
		data[key] = value
	}

	return data, nil
}

// printEnvelope prints the backend body when available, otherwise the envelope
func printEnvelope(w io.Writer, env models.Envelope) error {
	if len(env.Raw) > 0 {
		var v interface{}
		if err := json.Unmarshal(env.Raw, &v); err == nil {
			return printJSON(w, v)
		}
	}
	return printJSON(w, env)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
