// Package core defines the shared data model of the orchestration engine:
// conversation messages, intent classifications, agent results, reroute
// directives and the typed per-turn event stream. Higher layers (agent,
// classifier, orchestrator, backends) all depend on core and core depends on
// nothing but the standard library and uuid.
package core
