package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones del esquema",
	Long: `Migraciones del esquema embebidas en el binario.

Subcomandos:
  up      - Aplica las migraciones pendientes, cada una en su transacción
  status  - Muestra qué migraciones están aplicadas`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplicar migraciones pendientes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := postgres.NewMigrator(pool).Up(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			log.Info().Msg("el esquema ya está al día")
			return nil
		}
		for _, v := range applied {
			log.Info().Str("version", v).Msg("migración aplicada")
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Estado de las migraciones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		status, err := postgres.NewMigrator(pool).Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VERSIÓN\tESTADO")
		for _, s := range status {
			state := "pendiente"
			if s.Applied {
				state = "aplicada"
			}
			fmt.Fprintf(w, "%s\t%s\n", s.Version, state)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}
