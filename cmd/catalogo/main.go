// catalogo es la herramienta de línea de comandos del servicio: aplica las migraciones
// del esquema y carga catálogos desde CSV.
//
// Uso:
//
//	catalogo migrate up
//	catalogo migrate status
//	catalogo seed productos.csv --encoding iso-8859-1 --separator ';'
package main

import "github.com/jhoicas/catalogo-api/cmd/catalogo/commands"

func main() {
	commands.Execute()
}
