package acquire

import (
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// scratch is a per-request temporary directory. Release must run on every
// exit path; a failed removal is logged and otherwise ignored.
type scratch struct {
	dir    string
	logger *zap.Logger
}

func newScratch(root string, logger *zap.Logger) (*scratch, error) {
	dir, err := os.MkdirTemp(root, "truthlens-"+uuid.NewString()+"-")
	if err != nil {
		return nil, err
	}
	return &scratch{dir: dir, logger: logger}, nil
}

func (s *scratch) release() {
	if err := os.RemoveAll(s.dir); err != nil {
		s.logger.Warn("scratch cleanup failed", zap.String("dir", s.dir), zap.Error(err))
	}
}
