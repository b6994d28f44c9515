package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"svw.info/sudoku-lab/internal/domain"
)

// FS persists puzzles as pretty-printed JSON files under dir, bucketed by
// difficulty.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func diffDir(d domain.Difficulty) string {
	switch d {
	case domain.Easy:
		return "easy"
	case domain.Hard:
		return "hard"
	case domain.Expert:
		return "expert"
	default:
		return "medium"
	}
}

var buckets = []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard, domain.Expert}

func (s *FS) pathFor(id string, d domain.Difficulty) string {
	return filepath.Join(s.dir, diffDir(d), strings.TrimSpace(id)+".json")
}

func (s *FS) Save(ctx context.Context, p *domain.Puzzle) error {
	if p == nil || p.ID == "" {
		return errors.New("invalid puzzle: missing ID")
	}
	target := s.pathFor(p.ID, p.Difficulty)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Puzzle, error) {
	var data []byte
	var from domain.Difficulty
	found := false
	for _, d := range buckets {
		b, err := os.ReadFile(s.pathFor(id, d))
		if err != nil {
			continue
		}
		data, from, found = b, d, true
		break
	}
	if !found {
		return nil, os.ErrNotExist
	}
	var out domain.Puzzle
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	// Older files may omit these; infer from the folder and the grid.
	if out.Difficulty == 0 {
		out.Difficulty = from
	}
	if out.Size == 0 {
		out.Size = len(out.Board.Values)
	}
	return &out, nil
}

func (s *FS) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	var out []domain.PuzzleMeta
	for _, d := range buckets {
		dir := filepath.Join(s.dir, diffDir(d))
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var p domain.Puzzle
			if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
				continue
			}
			dd := p.Difficulty
			if dd == 0 {
				dd = d
			}
			size := p.Size
			if size == 0 {
				size = len(p.Board.Values)
			}
			out = append(out, domain.PuzzleMeta{
				ID:         p.ID,
				Name:       p.Name,
				Size:       size,
				Difficulty: dd,
				CreatedAt:  p.CreatedAt,
			})
		}
	}
	return out, nil
}
