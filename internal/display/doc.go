// Package display renders the HH:MM:SS clock string.
//
// Console redraws a single colored line on a writer; Terminal draws a
// bordered panel with github.com/gizak/termui/v3. Both toggle a heartbeat
// marker on every tick, like the status LED of a hardware clock.
package display
