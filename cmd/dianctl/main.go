// dianctl herramientas de línea de comandos sobre los simuladores: certificados,
// firma de XML, CUFE, envío local a la DIAN simulada y tokens para la API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
	"github.com/jhoicas/dian-simulador/pkg/config"
	pkgdian "github.com/jhoicas/dian-simulador/pkg/dian"
	"github.com/jhoicas/dian-simulador/pkg/jwt"
	"github.com/jhoicas/dian-simulador/pkg/logger"
)

var (
	signatureMode string
	Version       = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dianctl",
		Short:        "dianctl - herramientas del simulador DIAN",
		Long:         "Genera certificados, firma y verifica XML, calcula CUFE y envía documentos a la DIAN simulada",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&signatureMode, "mode", "raw", "modo de firma: raw | c14n")

	rootCmd.AddCommand(
		certCmd(),
		xmlCmd(),
		cufeCmd(),
		sendCmd(),
		nitCmd(),
		tokenCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func certificateSimulator() (*simulator.CertificateSimulator, error) {
	switch signatureMode {
	case "raw":
		return simulator.NewCertificateSimulator(simulator.RawSigner(), nil), nil
	case "c14n":
		return simulator.NewCertificateSimulator(simulator.CanonicalSigner(), nil), nil
	default:
		return nil, fmt.Errorf("modo de firma desconocido: %q (usar raw|c14n)", signatureMode)
	}
}

func certCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Certificados de la CA simulada",
	}

	var outDir string
	generate := &cobra.Command{
		Use:   "generate [razón social] [nit]",
		Short: "Emite un certificado y escribe key.pem y pub.pem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ca, err := certificateSimulator()
			if err != nil {
				return err
			}
			cert, err := ca.GenerateCertificate(args[0], args[1])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(outDir, "key.pem"), []byte(cert.PrivateKey), 0o600); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(outDir, "pub.pem"), []byte(cert.PublicKey), 0o644); err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"name":       cert.Name,
				"subject":    cert.Subject,
				"issuer":     cert.Issuer,
				"serial":     cert.SerialNumber,
				"issueDate":  cert.IssueDate.Format(time.RFC3339),
				"expiryDate": cert.ExpiryDate.Format(time.RFC3339),
				"privateKey": filepath.Join(outDir, "key.pem"),
				"publicKey":  filepath.Join(outDir, "pub.pem"),
			})
		},
	}
	generate.Flags().StringVarP(&outDir, "out", "o", ".", "directorio de salida")

	cmd.AddCommand(generate)
	return cmd
}

func xmlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xml",
		Short: "Firma y verificación de documentos",
	}

	var keyPath string
	sign := &cobra.Command{
		Use:   "sign [archivo.xml]",
		Short: "Firma el documento con una llave privada PEM e imprime el XML firmado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ca, err := certificateSimulator()
			if err != nil {
				return err
			}
			doc, key, err := readPair(args[0], keyPath)
			if err != nil {
				return err
			}
			signed, err := ca.SignXML(doc, key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), signed)
			return err
		},
	}
	sign.Flags().StringVarP(&keyPath, "key", "k", "key.pem", "llave privada PEM")

	var pubPath string
	verify := &cobra.Command{
		Use:   "verify [archivo.xml]",
		Short: "Verifica la firma del documento con una llave pública PEM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ca, err := certificateSimulator()
			if err != nil {
				return err
			}
			doc, pub, err := readPair(args[0], pubPath)
			if err != nil {
				return err
			}
			if !ca.VerifySignature(doc, pub) {
				return fmt.Errorf("firma inválida")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Firma válida")
			return nil
		},
	}
	verify.Flags().StringVarP(&pubPath, "pub", "p", "pub.pem", "llave pública PEM")

	cmd.AddCommand(sign, verify)
	return cmd
}

func cufeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cufe [archivo.xml]",
		Short: "Calcula el CUFE del documento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sim := simulator.NewDianSimulator(simulator.Config{})
			fmt.Fprintln(cmd.OutOrStdout(), sim.GenerateCUFE(string(doc)))
			return nil
		},
	}
}

func sendCmd() *cobra.Command {
	var (
		pubPath   string
		errorRate float64
		delay     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send [archivo.xml]",
		Short: "Envía el documento a la DIAN simulada y muestra el log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var cert *entity.Certificate
			if pubPath != "" {
				pub, err := os.ReadFile(pubPath)
				if err != nil {
					return err
				}
				cert = &entity.Certificate{PublicKey: string(pub), Status: entity.CertificateStatusActive}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			sim := simulator.NewDianSimulator(simulator.Config{DelayMin: delay, DelayMax: delay, ErrorRate: errorRate})
			out := cmd.OutOrStdout()
			res, err := sim.SendInvoiceWithProgress(ctx, string(doc), cert, func(line string) {
				fmt.Fprintln(out, line)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "TrackID:  %s\n", res.TrackID)
			if res.CUFE != "" {
				fmt.Fprintf(out, "CUFE:     %s\n", res.CUFE)
			}
			log := logger.New(logger.Config{Env: "development", Level: "info", Output: os.Stderr})
			ev := log.Info()
			if !res.Success {
				ev = log.Warn().Int("errors", len(res.Errors))
			}
			ev.Str("trackId", res.TrackID).Str("archivo", args[0]).Bool("success", res.Success).Msg("veredicto DIAN")
			if !res.Success {
				return fmt.Errorf("documento rechazado (%d errores)", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pubPath, "pub", "p", "", "llave pública PEM del certificado emisor")
	cmd.Flags().Float64Var(&errorRate, "error-rate", simulator.DefaultErrorRate, "probabilidad de rechazo aleatorio [0,1]")
	cmd.Flags().DurationVar(&delay, "delay", 0, "demora simulada de la DIAN")
	return cmd
}

func nitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dv [nit]",
		Short: "Calcula el dígito de verificación de un NIT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dv, err := pkgdian.ComputeNITVerificationDigit(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s-%c\n", args[0], dv)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		userID    string
		companyID string
		role      string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un JWT para la API con el secreto de la configuración (JWT_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, companyID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "cli", "user_id del token")
	cmd.Flags().StringVar(&companyID, "company", "", "company_id del token")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "rol: admin | facturador")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dianctl version %s\n", Version)
		},
	}
}

// readPair lee el documento y un archivo PEM.
func readPair(docPath, pemPath string) (string, string, error) {
	doc, err := os.ReadFile(docPath)
	if err != nil {
		return "", "", err
	}
	pem, err := os.ReadFile(pemPath)
	if err != nil {
		return "", "", err
	}
	return string(doc), string(pem), nil
}
