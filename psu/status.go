package psu

import (
	"strings"

	"github.com/arloliu/go-scpi/scpi"
)

// EnableQuestionable sets bit in the questionable status enable register.
func (s *Supply) EnableQuestionable(bit scpi.QuestionableBit) error {
	if err := scpi.CheckOptions(bit); err != nil {
		return err
	}

	return s.Write(scpi.QuestionableEnable(bit))
}

// QuestionableEnable reads the questionable status enable register.
func (s *Supply) QuestionableEnable() (int, error) {
	return s.QueryInt(scpi.QueryQuestionableEnable)
}

// QuestionableEvent reads and clears the questionable status event register.
func (s *Supply) QuestionableEvent() (int, error) {
	return s.QueryInt(scpi.QueryQuestionableEvent)
}

// QuestionableCondition reads the questionable status condition register.
func (s *Supply) QuestionableCondition() (int, error) {
	return s.QueryInt(scpi.QueryQuestionableCondition)
}

// SetCalcFunction selects the math function applied to readings.
func (s *Supply) SetCalcFunction(fn scpi.CalcFunction) error {
	if err := scpi.CheckOptions(fn); err != nil {
		return err
	}

	return s.Write(scpi.SetCalcFunction(fn))
}

// CalcFunction returns the selected math function.
func (s *Supply) CalcFunction() (scpi.CalcFunction, error) {
	reply, err := s.Query(scpi.QueryCalcFunction)
	if err != nil {
		return 0, err
	}

	return scpi.ParseCalcFunction(strings.Trim(reply, `"`))
}

// EnableCalc turns the selected calc function on.
func (s *Supply) EnableCalc() error {
	return s.setCalc(true)
}

// DisableCalc turns the calc function off.
func (s *Supply) DisableCalc() error {
	return s.setCalc(false)
}

func (s *Supply) setCalc(on bool) error {
	if err := s.Write(scpi.CalcState(on)); err != nil {
		return err
	}
	s.update(func(st *State) { st.Calc = on })

	return nil
}

// CalcState reports whether the math function is on.
func (s *Supply) CalcState() (bool, error) {
	return s.QueryBool(scpi.QueryCalcState)
}

// CalcAverage returns the mean of the readings taken since the average
// function was enabled.
func (s *Supply) CalcAverage() (float64, error) {
	return s.QueryFloat(scpi.QueryCalcAverage)
}

// CalcMaximum returns the largest reading seen by the average function.
func (s *Supply) CalcMaximum() (float64, error) {
	return s.QueryFloat(scpi.QueryCalcMaximum)
}

// CalcMinimum returns the smallest reading seen by the average function.
func (s *Supply) CalcMinimum() (float64, error) {
	return s.QueryFloat(scpi.QueryCalcMinimum)
}

// CalcPresent returns the latest reading seen by the average function.
func (s *Supply) CalcPresent() (float64, error) {
	return s.QueryFloat(scpi.QueryCalcPresent)
}

// SetDBReference sets the dB function reference in dBm.
func (s *Supply) SetDBReference(dbm float64) error {
	dbm, err := scpi.CalcDBReferenceLimits.Check("dB reference", dbm)
	if err != nil {
		return err
	}

	return s.Write(scpi.CalcDBReference(dbm))
}

// SetDBMReference sets the dBm function reference resistance in ohms.
func (s *Supply) SetDBMReference(ohms int) error {
	ohms, err := scpi.CalcDBMReferenceLimits.Check("dBm reference", ohms)
	if err != nil {
		return err
	}

	return s.Write(scpi.CalcDBMReference(ohms))
}

// SetHoldVariation sets the reading variation, in percent, the hold function
// tolerates.
func (s *Supply) SetHoldVariation(pct float64) error {
	pct, err := scpi.CalcHoldVariationLimits.Check("hold variation", pct)
	if err != nil {
		return err
	}

	return s.Write(scpi.CalcHoldVariation(pct))
}

// SetHoldThreshold sets the hold function threshold in percent of range.
func (s *Supply) SetHoldThreshold(pct float64) error {
	pct, err := scpi.CalcHoldThresholdLimits.Check("hold threshold", pct)
	if err != nil {
		return err
	}

	return s.Write(scpi.CalcHoldThreshold(pct))
}

// SetLimits sets the upper and lower bounds of the limit function.
func (s *Supply) SetLimits(upper, lower float64) error {
	if _, err := scpi.Validate("lower limit", lower, -scpi.Overload, upper); err != nil {
		return err
	}

	return s.writeAll(scpi.CalcLimitUpper(upper), scpi.CalcLimitLower(lower))
}

// SetNullOffset sets the value the null function subtracts from readings.
func (s *Supply) SetNullOffset(offset float64) error {
	return s.Write(scpi.CalcNullOffset(offset))
}

// EnableLogging starts storing readings in the data log.
func (s *Supply) EnableLogging() error {
	return s.setLogging(true)
}

// DisableLogging stops data logging.
func (s *Supply) DisableLogging() error {
	return s.setLogging(false)
}

func (s *Supply) setLogging(on bool) error {
	if err := s.Write(scpi.LogState(on)); err != nil {
		return err
	}
	s.update(func(st *State) { st.Logging = on })

	return nil
}

// LoggingStatus reports whether data logging is on.
func (s *Supply) LoggingStatus() (bool, error) {
	return s.QueryBool(scpi.QueryLogState)
}

// DeleteLoggedData erases the data log.
func (s *Supply) DeleteLoggedData() error {
	return s.Write(scpi.CmdLogDelete)
}

// RewindLoggedData moves the log read position back to the first entry.
func (s *Supply) RewindLoggedData() error {
	return s.Write(scpi.CmdLogRewind)
}

// ReadLoggedData returns the next logged entry. A datum whose End method
// reports true marks the end of the log.
func (s *Supply) ReadLoggedData() (scpi.LogDatum, error) {
	reply, err := s.Query(scpi.QueryLogData)
	if err != nil {
		return scpi.LogDatum{}, err
	}

	return scpi.ParseLogDatum(reply), nil
}

// ReadAllLoggedData reads entries until the end marker and returns the
// readings. At most limit entries are read.
func (s *Supply) ReadAllLoggedData(limit int) ([]float64, error) {
	var readings []float64
	for range limit {
		datum, err := s.ReadLoggedData()
		if err != nil {
			return readings, err
		}
		if datum.End() {
			break
		}
		readings = append(readings, datum.Value)
	}

	return readings, nil
}
