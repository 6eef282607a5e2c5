package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sangkips/invoicer/internal/application/service"
	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/money"
	"github.com/sangkips/invoicer/pkg/qr"
)

func newApp(log *zap.Logger) *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "render PDF invoices and QR codes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "font-file",
				Usage:   "UTF-8 TTF font for currency symbols outside cp1252",
				EnvVars: []string{"INVOICE_FONT_FILE"},
			},
			&cli.BoolFlag{
				Name:    "compress",
				Usage:   "compress PDF streams",
				Value:   true,
				EnvVars: []string{"INVOICE_COMPRESS"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render an invoice described in a YAML or JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "invoice file (.yaml, .yml or .json)", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PDF path", Value: entity.InvoiceFileName},
					&cli.StringFlag{Name: "logo", Usage: "logo image (PNG, JPEG or GIF)"},
					&cli.StringFlag{Name: "qr", Usage: "QR code payload, overrides qr_data from the input file"},
					&cli.StringFlag{Name: "save-dir", Usage: "existing directory that also receives a copy of the PDF"},
				},
				Action: func(c *cli.Context) error {
					state, err := loadState(c.String("input"))
					if err != nil {
						return err
					}
					if c.IsSet("qr") {
						state.QRData = c.String("qr")
					}
					if c.IsSet("save-dir") {
						state.SaveDir = c.String("save-dir")
					}
					return renderState(c, log, state, c.String("out"), c.String("logo"))
				},
			},
			{
				Name:  "qr",
				Usage: "write a QR code PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "payload to encode", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PNG path", Value: entity.QRFileName},
				},
				Action: func(c *cli.Context) error {
					path, err := qr.Generate(c.String("text"), c.String("out"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "QR code saved to %s\n", path)
					return nil
				},
			},
			{
				Name:  "example",
				Usage: "render the built-in sample invoice",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PDF path", Value: "invoice_example.pdf"},
					&cli.StringFlag{Name: "logo", Usage: "logo image (PNG, JPEG or GIF)"},
				},
				Action: func(c *cli.Context) error {
					return renderState(c, log, exampleState(), c.String("out"), c.String("logo"))
				},
			},
		},
	}
}

// exampleState is the sample invoice rendered by the example command.
func exampleState() entity.FormState {
	state := service.NewFormService(service.FormDefaults{}).NewFormState()
	state.Metadata.InvoiceDate = "2024-01-01"
	state.Metadata.DueDate = "2024-01-15"
	state.Metadata.CustomFields = nil
	return state
}

func renderState(c *cli.Context, log *zap.Logger, state entity.FormState, out, logo string) error {
	layout := service.NewLayoutService()
	render := service.NewRenderService(layout, service.RenderOptions{
		FontFile: c.String("font-file"),
		Compress: c.Bool("compress"),
		Creator:  c.App.Name,
	}, log)

	meta, table, err := layout.LayoutForm(state)
	if err != nil {
		return describe(err)
	}

	err = render.Render(c.Context, service.RenderRequest{
		OutputPath: out,
		LogoPath:   logo,
		QRData:     state.QRData,
		Metadata:   meta,
		Layout:     table,
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(c.App.Writer, "Invoice saved to %s (grand total %s)\n", out, money.Format(table.Totals.GrandTotal(), meta.Currency))

	if dir := strings.TrimSpace(state.SaveDir); dir != "" {
		data, err := os.ReadFile(out)
		if err != nil {
			return apperror.NewIOError("failed to read "+out, err)
		}
		copied, err := service.SaveCopy(dir, filepath.Base(out), data)
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
			return nil
		}
		fmt.Fprintf(c.App.Writer, "Copy saved to %s\n", copied)
	}
	return nil
}

// loadState reads a FormState from YAML, or from JSON when path ends in .json.
func loadState(path string) (entity.FormState, error) {
	var state entity.FormState

	data, err := os.ReadFile(path)
	if err != nil {
		return state, apperror.NewIOError("failed to read "+path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &state)
	} else {
		err = yaml.Unmarshal(data, &state)
	}
	if err != nil {
		return state, apperror.Newf(apperror.KindValue, "failed to parse %s: %v", path, err)
	}
	return state, nil
}

// describe flattens field errors into the message so the CLI prints them all.
func describe(err error) error {
	appErr := apperror.GetAppError(err)
	if len(appErr.Errors) == 0 || (len(appErr.Errors) == 1 && appErr.Errors[0].Message == appErr.Message) {
		return err
	}
	msgs := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Errorf("%s: %s", appErr.Message, strings.Join(msgs, "; "))
}
