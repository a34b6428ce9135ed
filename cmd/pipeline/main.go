// cmd/pipeline/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cebdast/SEGIF-CARUARU/internal/core/pipeline"
)

const version = "1.2.0"

var (
	flagDir          string
	flagOut          string
	flagMatricesOnly bool
	flagV2           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "segif-pipeline",
		Short: "Pipeline de normalização e cruzamento de relatórios SEGIF",
	}

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Detecta, transforma e cruza os relatórios de um diretório",
		RunE:  runProcess,
	}
	processCmd.Flags().StringVar(&flagDir, "dir", ".", "diretório com os relatórios do mês")
	processCmd.Flags().StringVar(&flagOut, "out", "Cruzamento.xlsx", "arquivo .xlsx de saída")
	processCmd.Flags().BoolVar(&flagMatricesOnly, "matrices-only", false, "não grava o .xlsx; imprime o resumo das abas")
	processCmd.Flags().BoolVar(&flagV2, "v2", false, "modo V2: consignados como quinta aba, sem fases de retenção")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Imprime a versão",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("segif-pipeline %s\n", version)
		},
	}

	rootCmd.AddCommand(processCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	entries, err := os.ReadDir(flagDir)
	if err != nil {
		return fmt.Errorf("erro ao listar diretório %s: %w", flagDir, err)
	}

	var files []pipeline.NamedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(flagDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("erro ao abrir %s: %w", entry.Name(), err)
		}
		defer f.Close()
		files = append(files, pipeline.NamedFile{Name: entry.Name(), Reader: f})
	}
	if len(files) == 0 {
		return fmt.Errorf("nenhum arquivo encontrado em %s", flagDir)
	}

	svc := pipeline.NewService(logger)
	resultado, stats, err := svc.Cruzamento(files, pipeline.CruzamentoOptions{V2: flagV2})
	if err != nil {
		return err
	}

	fmt.Printf("Fases aplicadas: %v\n", stats.FasesAplicadas)
	for papel, s := range stats.Transformacoes {
		fmt.Printf("  %-14s %d -> %d linhas (%d removidas)\n",
			papel, s.LinhasOriginal, s.LinhasFinal, s.LinhasRemovidas)
	}

	if flagMatricesOnly {
		for _, aba := range resultado.Abas {
			cols := 0
			if len(aba.Data) > 0 {
				cols = len(aba.Data[0])
			}
			fmt.Printf("  aba %-18q %d linhas x %d colunas\n", aba.Name, len(aba.Data)-1, cols)
		}
		return nil
	}

	data, err := resultado.Workbook()
	if err != nil {
		return fmt.Errorf("erro ao gerar a planilha final: %w", err)
	}
	if err := os.WriteFile(flagOut, data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar %s: %w", flagOut, err)
	}
	fmt.Printf("Planilha final gravada em %s\n", flagOut)
	return nil
}
