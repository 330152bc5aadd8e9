// Package profile loads bench profiles: the serial numbers and startup
// configuration of the supply and the SMU used by a test station.
//
// A profile is a YAML file, optionally overridden by environment variables
// or .env files:
//
//	psu:
//	  serial: MY5400001
//	  multimeter_mode: voltage
//	  constant_voltage_output: 5
//	smu:
//	  serial: MY5400002
//	  timeout: 3m
//	  channels:
//	    - channel: 1
//	      source_voltage: 1.8
//
// Environment overrides use the BENCH_ prefix, e.g. BENCH_PSU_SERIAL or
// BENCH_SMU_CH_2_SOURCE_CURRENT.
package profile
