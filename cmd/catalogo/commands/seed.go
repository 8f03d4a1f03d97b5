package commands

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
)

var (
	// Flags de seed
	seedEncoding  string
	seedSeparator string
	seedDryRun    bool
	seedStrict    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed <archivo.csv>",
	Short: "Cargar un catálogo desde CSV",
	Long: `Carga categorías y productos desde un CSV con las columnas
categoria, categoria_descripcion, nombre, descripcion, precio, stock, codigo.

Las categorías se crean la primera vez que aparecen y los productos cuyo código
ya existe se omiten. Se aplican las mismas validaciones que en la API.

Ejemplos:
  catalogo seed productos.csv
  catalogo seed productos.csv --encoding iso-8859-1 --separator ';'
  catalogo seed productos.csv --dry-run    # valida contra un almacén en memoria`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sep, size := utf8.DecodeRuneInString(seedSeparator)
		if size == 0 || size != len(seedSeparator) {
			return fmt.Errorf("--separator debe ser un único carácter")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("abrir CSV: %w", err)
		}
		defer f.Close()

		var (
			categories repository.CategoryRepository
			products   repository.ProductRepository
		)
		if seedDryRun {
			store := memory.NewStore()
			categories, products = store.Categories(), store.Products()
		} else {
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			categories, products = postgres.NewCategoryRepository(pool), postgres.NewProductRepository(pool)
		}

		importer := catalog.NewImporter(
			usecase.NewCategoryUseCase(categories),
			usecase.NewProductUseCase(products, categories),
			log,
		)
		res, err := importer.Import(ctx, f, catalog.Options{Encoding: seedEncoding, Separator: sep})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Filas: %d, categorías creadas: %d, productos creados: %d, omitidos: %d, con error: %d\n",
			res.Rows, res.CategoriesCreated, res.ProductsCreated, res.Skipped, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  línea %d: %s\n", e.Line, e.Message)
		}
		if seedStrict && len(res.Errors) > 0 {
			return fmt.Errorf("%d filas rechazadas", len(res.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedEncoding, "encoding", catalog.EncodingUTF8, "Codificación del archivo: utf-8 o iso-8859-1")
	seedCmd.Flags().StringVar(&seedSeparator, "separator", ",", "Separador de columnas")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Validar el archivo contra un almacén en memoria sin tocar la base de datos")
	seedCmd.Flags().BoolVar(&seedStrict, "strict", false, "Terminar con error si alguna fila fue rechazada")
}
