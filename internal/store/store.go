package store

import "github.com/yourorg/harscope/pkg/types"

type Store interface {
	SaveRun(run *types.RunSummary) error
	GetRun(id string) (*types.RunSummary, error)
	ListRuns(limit int) ([]types.RunSummary, error)
	DeleteRun(id string) error
	LatestRunForHash(fileHash string) (*types.RunSummary, error)

	Close() error
}
