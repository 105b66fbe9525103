package main

import (
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coinbase/rsakey-go/pkg/rsakey"
	"github.com/coinbase/rsakey-go/pkg/rsakey/logging"
)

type app struct {
	configPath string
	engine     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rsakey-go",
		Short: "RSA key parameter tool",
		Long: `rsakey-go generates RSA keys and converts their parameters between
DER public keys, JSON, CryptoAPI key blobs and RSAKeyValue XML.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVar(&a.engine, "engine", "", "engine override (software, openssl)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		a.versionCmd(),
		a.generateCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.inspectCmd(),
	)
	return root
}

// open builds a Library from the config file and flag overrides. Logs go to
// the command's stderr.
func (a *app) open(cmd *cobra.Command) (*rsakey.Library, error) {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.engine != "" {
		cfg.Engine = a.engine
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)})
	return rsakey.Open(rsakey.Config{
		Engine:            cfg.Engine,
		Logger:            logging.New(slog.New(handler)),
		EnableZeroization: cfg.Zeroize,
	})
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print library and engine versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rsakey-go %s\n", rsakey.WrapperVersion())
			lib, err := a.open(cmd)
			if errors.Is(err, rsakey.ErrNotBuilt) {
				fmt.Fprintf(out, "engine unavailable: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}
			defer lib.Close()
			fmt.Fprintf(out, "engine %s %s\n", lib.EngineName(), lib.EngineVersion())
			return nil
		},
	}
}

func (a *app) generateCmd() *cobra.Command {
	var (
		bits    int
		format  string
		public  bool
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a key and write its parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := resolveFormat(format, outPath)
			if err != nil {
				return err
			}
			lib, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer lib.Close()

			key, err := lib.Generate(bits)
			if err != nil {
				return fmt.Errorf("failed to generate key: %w", err)
			}
			defer key.Release()

			p, err := key.Export(!public)
			if err != nil {
				return fmt.Errorf("failed to export key: %w", err)
			}
			defer p.Zeroize()
			return writeParams(cmd, p, f, outPath)
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 2048, "modulus size in bits")
	cmd.Flags().StringVar(&format, "format", "", "output format: json, xml or blob")
	cmd.Flags().BoolVar(&public, "public", false, "write only the public parameters")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var inPath, format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the parameters of a DER or PEM public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := resolveFormat(format, outPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Clean(inPath))
			if err != nil {
				return err
			}
			der, err := publicKeyDER(data)
			if err != nil {
				return err
			}

			lib, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer lib.Close()

			key, err := lib.Decode(der)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", inPath, err)
			}
			defer key.Release()

			p, err := key.Export(false)
			if err != nil {
				return err
			}
			return writeParams(cmd, p, f, outPath)
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "DER or PEM public key")
	cmd.Flags().StringVar(&format, "format", "", "output format: json, xml or blob")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var inPath, format, outPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import parameters and write the public key",
		Long: `import validates a parameter file, builds a key from it and writes the
PKCS#1 public key: DER to --out, or PEM to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := readParams(inPath, format)
			if err != nil {
				return err
			}
			defer p.Zeroize()

			lib, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer lib.Close()

			key, err := lib.Import(p)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", inPath, err)
			}
			defer key.Release()

			der, err := key.MarshalPublicKey()
			if err != nil {
				return err
			}
			if outPath != "" {
				return os.WriteFile(outPath, der, 0o644)
			}
			return pem.Encode(cmd.OutOrStdout(), &pem.Block{Type: "RSA PUBLIC KEY", Bytes: der})
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "parameter file")
	cmd.Flags().StringVar(&format, "format", "", "input format: json, xml or blob")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "DER output file (default PEM to stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	var inPath, format string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the field widths of a parameter file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := readParams(inPath, format)
			if err != nil {
				return err
			}
			defer p.Zeroize()
			return inspect(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "parameter file")
	cmd.Flags().StringVar(&format, "format", "", "input format: json, xml or blob")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func inspect(w io.Writer, p *rsakey.Parameters) error {
	fmt.Fprintf(w, "modulus_size  %d\n", p.ModulusSize())
	fmt.Fprintf(w, "modulus_bits  %d\n", p.ModulusSize()*8)
	fields := []struct {
		name string
		v    []byte
	}{
		{"modulus", p.Modulus}, {"exponent", p.Exponent},
		{"d", p.D}, {"p", p.P}, {"dp", p.DP},
		{"q", p.Q}, {"dq", p.DQ}, {"inverse_q", p.InverseQ},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-13s %d\n", f.name, len(f.v))
	}
	if err := p.Validate(); err != nil {
		fmt.Fprintf(w, "valid         false (%v)\n", err)
		return nil
	}
	fmt.Fprintln(w, "valid         true")
	return nil
}

func readParams(path, format string) (*rsakey.Parameters, error) {
	f, err := resolveFormat(format, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer rsakey.ZeroizeBytes(data)
	return decodeParams(data, f)
}

func writeParams(cmd *cobra.Command, p *rsakey.Parameters, format, path string) error {
	data, err := encodeParams(p, format)
	if err != nil {
		return err
	}
	defer rsakey.ZeroizeBytes(data)
	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
