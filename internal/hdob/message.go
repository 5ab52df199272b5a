package hdob

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// terminator ends the observation block. Input past it is ignored.
const terminator = "$$"

// missionRe matches the mission line, e.g. "AF308 1006A EARL HDOB 09 20220905".
var missionRe = regexp.MustCompile(`^([A-Z0-9 ]*) HDOB ([0-9]{2}) ([0-9]{4})([0-9]{2})([0-9]{2})$`)

// Message is a complete decoded HDOB product: the framing lines plus the
// observation sequence in transmission order.
type Message struct {
	Header       string // WMO abbreviated heading, e.g. "URNT15 KNHC 051413"
	MissionID    string // mission identifier, e.g. "AF308 1006A EARL"
	ObsNumber    int    // HDOB sequence number within the mission
	Date         time.Time
	Observations []Observation
}

// LineError locates a malformed observation within the message body.
type LineError struct {
	Line int // 1-based observation line number
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("observation line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse reads one complete HDOB message. The transmission priority line is
// discarded, the header line kept verbatim, and the mission line must match
// the HDOB grammar. Observation lines follow until the "$$" terminator or end
// of input; one malformed line fails the whole message.
func Parse(r io.Reader) (Message, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return Message{}, scanErr(sc, "missing transmission priority line")
	}

	if !sc.Scan() {
		return Message{}, scanErr(sc, "missing header line")
	}
	header := strings.TrimSpace(sc.Text())

	if !sc.Scan() {
		return Message{}, scanErr(sc, "missing mission line")
	}
	missionLine := strings.TrimSpace(sc.Text())
	m := missionRe.FindStringSubmatch(missionLine)
	if m == nil {
		return Message{}, fmt.Errorf("mission line %q does not match HDOB grammar", missionLine)
	}

	obsNumber, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	month, _ := strconv.Atoi(m[4])
	day, _ := strconv.Atoi(m[5])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return Message{}, fmt.Errorf("mission line date %q is not a calendar date", m[3]+m[4]+m[5])
	}

	msg := Message{
		Header:    header,
		MissionID: strings.TrimSpace(m[1]),
		ObsNumber: obsNumber,
		Date:      date,
	}

	line := 0
	for sc.Scan() {
		text := sc.Text()
		if strings.TrimSpace(text) == terminator {
			break
		}
		line++
		obs, err := ParseObservation(date, text)
		if err != nil {
			return Message{}, &LineError{Line: line, Err: err}
		}
		msg.Observations = append(msg.Observations, obs)
	}
	if err := sc.Err(); err != nil {
		return Message{}, fmt.Errorf("read message: %w", err)
	}

	return msg, nil
}

func scanErr(sc *bufio.Scanner, msg string) error {
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read message: %w", err)
	}
	return errors.New(msg)
}
