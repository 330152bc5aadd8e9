// Package smu drives the Keysight U2723 three channel source-measure unit.
//
// Each channel sources voltage and measures current (SVMI) or sources current
// and measures voltage (SIMV). Setpoints are validated against the global
// bounds in package scpi before anything is written; a rejected call never
// partially applies. Beyond scalar and array measurements the SMU executes
// memory list programs built with package memlist.
//
// Use wraps a session so that every channel is switched off and the
// instrument is returned to its preset state on every exit path:
//
//	err := smu.Use(ctx, dir, smu.Options{Serial: "MY5400002"}, func(s *smu.SMU) error {
//		if err := s.SetSourceCurrent(scpi.CH1, 0.05); err != nil {
//			return err
//		}
//		return s.EnableChannel(scpi.CH1)
//	})
package smu
