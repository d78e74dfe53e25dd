// Package sysvshm allocates System V shared memory segments that can be
// handed to the X server through the MIT-SHM extension.
package sysvshm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Segment is a private segment attached into this process.
type Segment struct {
	id      int
	data    []byte
	removed bool
}

// Create allocates a private segment of size bytes and attaches it.
// On any failure nothing is left allocated.
func Create(size int) (*Segment, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sysvshm: invalid size %d", size)
	}
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|0777)
	if err != nil {
		return nil, fmt.Errorf("sysvshm: shmget: %w", err)
	}
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, fmt.Errorf("sysvshm: shmat: %w", err)
	}
	return &Segment{id: id, data: data}, nil
}

// ID is the kernel segment identifier passed to the X server.
func (s *Segment) ID() int { return s.id }

// Bytes is the attached mapping. It is nil after Detach.
func (s *Segment) Bytes() []byte { return s.data }

// Remove marks the segment for destruction once every process has
// detached. Mappings that already exist stay valid.
func (s *Segment) Remove() error {
	if s.removed {
		return nil
	}
	s.removed = true
	if _, err := unix.SysvShmCtl(s.id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("sysvshm: shmctl(IPC_RMID): %w", err)
	}
	return nil
}

// Detach unmaps the segment from this process.
func (s *Segment) Detach() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	if err := unix.SysvShmDetach(data); err != nil {
		return fmt.Errorf("sysvshm: shmdt: %w", err)
	}
	return nil
}
