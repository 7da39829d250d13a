// Package history records Alice device activity as time series.
//
// A Recorder is a host.EventBus: every device action event becomes one
// point in the action measurement, tagged by entity, capability and
// outcome. Float property values returned to the platform by a state
// query are written to the property measurement, so sensor readings seen
// by the voice assistant can be charted next to the actions.
package history
