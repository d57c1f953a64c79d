package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"
	"time"
)

// buildLock is the advisory per-digest build lock: a sidecar JSON file
// held with a non-blocking exclusive flock. The kernel drops the flock
// when the holder exits, so a file left behind by a crashed worker does
// not block later builds of that digest. The holder's PID and start
// time are written into the file for inspection only; they are never
// read back.
type buildLock struct {
	path string
	file *os.File
}

type lockRecord struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// errAlreadyBuilding is returned when a live holder already owns the lock.
var errAlreadyBuilding = fmt.Errorf("digest is already building")

// acquireBuildLock takes the advisory lock at path. It fails with
// errAlreadyBuilding while another open file description holds the
// flock; a leftover file whose holder has exited is locked afresh.
func acquireBuildLock(path string) (*buildLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open build lock: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, errAlreadyBuilding
	}

	record := lockRecord{PID: os.Getpid(), StartedAt: time.Now()}
	data, err := json.Marshal(record)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		f.Close()
		return nil, err
	}

	return &buildLock{path: path, file: f}, nil
}

// Release drops the flock and removes the sidecar file. The flock
// itself is also released automatically on process exit.
func (l *buildLock) Release() error {
	defer l.file.Close()
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	return os.Remove(l.path)
}
