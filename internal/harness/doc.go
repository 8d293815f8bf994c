// Package harness provides conformance testing for compiled search queries.
//
// The harness loads YAML scenarios, compiles each scenario's parsed query
// with the configured vocabulary and checks the Cypher text, parameters,
// keyword decision and diagnostics against the scenario's assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	vocabulary: path/to/vocab.cue   # optional, built-in vocabulary if omitted
//	input:
//	  text: "people over 40 who own property worth over 200000"
//	  filters: { "property value": ">200000" }
//	  keywords: [books]
//	  language: en
//	assertions:
//	  - type: contains
//	    text: "MATCH (d:Double)-[:OWNS]->(p_property:Property)"
//	  - type: param
//	    name: p0
//	    value: 200000
//	  - type: keywords
//	    include: false
//	    reason: product-only query
//
// # Assertion Types
//
//   - contains: the Cypher text contains text
//   - not_contains: the Cypher text does not contain text
//   - match_count: the query has exactly count MATCH lines
//   - param: parameter name is bound to value (numbers compare by value)
//   - param_count: exactly count parameters are bound
//   - keywords: the keyword decision has the given include flag and reason
//   - diagnostic: a diagnostic with code (and field, if given) was raised
//   - no_diagnostics: no diagnostics were raised
//   - no_literals: no string parameter value appears in the Cypher text
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/age_backstop.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
