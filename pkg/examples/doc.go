// Package examples provides reference adapters demonstrating how to
// drive a hub with the taxonomy library.
//
// The example implementations show:
//   - Adapter registration and channel attachment
//   - Getter fetch handling and value pushing
//   - Setter dispatch with typed values
//   - Background loops tied to a context
//
// Available examples:
//   - Clock: current time and time-of-day getters on a push loop
//   - Light: an on/off light mirroring setter writes into its getter
//   - Thermostat: a heater whose temperature drifts toward its target
//
// These can serve as templates for real device adapters.
package examples
