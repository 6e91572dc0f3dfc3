// Package agent implements the per-agent execution runtime: prompt assembly
// from the trailing history window, the bounded tool-call loop with embedded
// directive parsing, reroute short-circuiting and cost accounting. LiveAgent
// drives a real inference backend; ScriptedAgent replays canned model output
// through the same loop so demo scenarios and tests produce identically
// shaped results and event streams.
package agent
