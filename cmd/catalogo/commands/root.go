package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

var (
	// Flags globales
	dbURL    string
	logLevel string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogo",
	Short: "Herramientas de administración del catálogo",
	Long: `Herramientas de administración del catálogo de categorías y productos.

La conexión se toma de DATABASE_URL o DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME,
igual que el servidor HTTP. --db tiene prioridad sobre ambos.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		level := cfg.App.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: level})
		return nil
	},
}

// Execute ejecuta el comando raíz y termina el proceso con código 1 si falla.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "URL de conexión a PostgreSQL (por defecto la de la configuración)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Nivel de log: trace, debug, info, warn, error")
}

// openPool abre el pool con --db si se indicó, o con la configuración cargada.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if dbURL != "" {
		return postgres.Connect(ctx, dbURL)
	}
	return postgres.NewPool(ctx, cfg.DB)
}
