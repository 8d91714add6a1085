package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Códigos de saída do processo.
const (
	ExitClean      = 0
	ExitIssues     = 1
	ExitUsageError = 2
)

// Run executa o comando raiz com os argumentos do processo e devolve o
// código de saída.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := ExitClean
	root := newRootCmd(stdout, stderr, &code)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// O cobra já imprimiu o erro.
		return ExitUsageError
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	opts := &scanOptions{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:   "leakcheck",
		Short: "Procura credenciais na árvore de trabalho e em todo o histórico git",
		Long: "leakcheck aplica um catálogo fixo de padrões de credenciais aos arquivos " +
			"atuais e a todos os commits de todas as branches, verifica se algum .env " +
			"já foi commitado e confere o .gitignore.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := runScan(cmd, opts)
			if err != nil {
				return err
			}
			*code = c
			return nil
		},
	}
	addScanFlags(cmd, opts)
	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão do leakcheck",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "leakcheck version %s\n", version)
		},
	}
}
