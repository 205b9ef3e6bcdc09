// Package harness runs CQL translation scenarios as conformance tests.
//
// # Scenario Format
//
// Scenarios are YAML files. Each one configures a translator and lists
// queries with the SQL they must produce:
//
//	name: instance_search
//	description: "Searches over the instance table"
//	table: instance
//	column: jsonb                 # optional, defaults to jsonb
//	schema: ../schemas/instance.json
//	server_choice: [title]        # optional, defaults to the schema's list
//	lang: de                      # optional, language of error messages
//	cases:
//	  - cql: title adj "harry potter"
//	    where: "to_tsvector(...) @@ to_tsquery(...)"
//	  - cql: tags=fantasy
//	    joins: [tags]
//	    warnings: []
//	  - cql: title within x
//	    error:
//	      code: CQL002
//
// The schema path is relative to the scenario file. Expectations that are
// left out are not checked; warnings: [] asserts that there are none.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/instance.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
//
// RunWithGolden additionally compares a text snapshot of every case against
// testdata/golden/<name>.golden.
package harness
