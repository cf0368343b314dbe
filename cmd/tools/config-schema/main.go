// Command config-schema emits the JSON schema for the simulator tuning
// file, for editor completion and config validation in CI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/banshee-data/botarena/internal/config"
)

var outPath = flag.String("out", "", "Write the schema to this file instead of stdout")

func main() {
	flag.Parse()

	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&config.SimConfig{})
	schema.Title = "botarena tuning config"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal schema: %v", err)
	}
	data = append(data, '\n')

	if *outPath == "" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outPath, err)
	}
	log.Printf("Wrote schema to %s", *outPath)
}
