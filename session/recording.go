// Package session records the events of a scene to a stream, and decodes such recordings for
// replay and analysis.
package session

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/pelletier/go-toml"
	"github.com/sasha-s/go-deadlock"
)

// CurrentRecordingVer is the version written to the header of new recordings.
const CurrentRecordingVer = "1"

// Entry is a single recorded event and the character it came from.
type Entry struct {
	Source uuid.UUID
	Event  event.Event
}

// Recording is a decoded recording.
type Recording struct {
	Version       string
	EventsVersion string
	Settings      settings.Settings
	Entries       []Entry
}

// Recorder is an event.Listener writing every event it receives to a stream. A recording starts
// with a header holding the recording and event versions and the settings of the scene, followed
// by one length prefixed record per event.
type Recorder struct {
	w   io.Writer
	n   int
	err error

	mu deadlock.Mutex
}

// NewRecorder writes the header of a recording of a scene using s to w and returns a Recorder
// appending to it.
func NewRecorder(w io.Writer, s settings.Settings) (*Recorder, error) {
	enc, err := toml.Marshal(s)
	if err != nil {
		return nil, oerror.New("unable to encode settings: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	buf.WriteString(CurrentRecordingVer + "\n")
	buf.WriteString(event.EventsVersion + "\n")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(enc)))
	buf.Write(enc)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, oerror.New("unable to write recording header: %w", err)
	}
	return &Recorder{w: w}, nil
}

// HandleEvent appends an event to the recording. After the first write error, every following
// event is dropped and the error is returned by Err.
func (r *Recorder) HandleEvent(source uuid.UUID, ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}

	enc := ev.Encode()
	record := make([]byte, 0, 20+len(enc))
	record = append(record, source[:]...)
	record = binary.LittleEndian.AppendUint32(record, uint32(len(enc)))
	record = append(record, enc...)
	if _, err := r.w.Write(record); err != nil {
		r.err = oerror.New("unable to write event: %w", err)
		return
	}
	r.n++
}

// Len returns the number of events recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Err returns the first error the recorder ran into.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Decode decodes a recording. It returns an error if the recording could not be parsed, or if the
// version of the recording is not supported.
func Decode(rd io.Reader) (*Recording, error) {
	br := bufio.NewReader(rd)
	rec := &Recording{}

	version, err := readLine(br)
	if err != nil {
		return nil, oerror.New("unable to read recording version: %w", err)
	}
	if version != CurrentRecordingVer {
		return nil, oerror.New("unsupported recording version: %s", version)
	}
	rec.Version = version

	if rec.EventsVersion, err = readLine(br); err != nil {
		return nil, oerror.New("unable to read events version: %w", err)
	}
	if rec.EventsVersion != event.EventsVersion {
		return nil, oerror.New("unsupported events version: %s", rec.EventsVersion)
	}

	enc, err := readRecord(br)
	if err != nil {
		return nil, oerror.New("unable to read settings: %w", err)
	}
	if rec.Settings, err = settings.Decode("toml", enc); err != nil {
		return nil, oerror.New("unable to decode settings: %w", err)
	}

	for {
		var source uuid.UUID
		if _, err := io.ReadFull(br, source[:]); err == io.EOF {
			return rec, nil
		} else if err != nil {
			return nil, oerror.New("unable to read event source: %w", err)
		}

		enc, err := readRecord(br)
		if err != nil {
			return nil, oerror.New("unable to read event: %w", err)
		}
		ev, err := event.DecodeEvent(bytes.NewBuffer(enc))
		if err != nil {
			return nil, oerror.New("unable to decode event: %w", err)
		}
		rec.Entries = append(rec.Entries, Entry{Source: source, Event: ev})
	}
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func readRecord(br *bufio.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	dat := make([]byte, size)
	if _, err := io.ReadFull(br, dat); err != nil {
		return nil, err
	}
	return dat, nil
}
