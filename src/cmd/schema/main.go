// Command schema prints the Postgres DDL for every model. It is the external
// schema loader for atlas:
//
//	data "external_schema" "gorm" {
//	  program = ["go", "run", "./src/cmd/schema"]
//	}
package main

import (
	"fmt"
	"io"
	"os"

	"voyagemate/src/models"

	"ariga.io/atlas-provider-gorm/gormschema"
)

const shareLinkIndex = `CREATE UNIQUE INDEX idx_share_links_one_unrevoked ON trip_share_links (trip_id) WHERE revoked_at IS NULL;`

func main() {
	stmts, err := gormschema.New("postgres").Load(models.All()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	io.WriteString(os.Stdout, stmts)
	fmt.Fprintln(os.Stdout, shareLinkIndex)
}
