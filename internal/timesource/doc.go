// Package timesource keeps a network-corrected wall clock.
//
// NTPSource measures the offset between the local clock and an NTP server
// with github.com/beevik/ntp and adds it to every reading. A fixed UTC offset
// set with SetTimeOffset is applied when the time is formatted for display.
package timesource
