package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"leettrack/internal/model"
)

const archiveVersion = 1

// Archive is the plaintext body of an export.
type Archive struct {
	Version    int              `json:"version"`
	UserID     string           `json:"userId"`
	ExportedAt string           `json:"exportedAt"`
	Problems   []*model.Problem `json:"problems"`
	Contests   []*model.Contest `json:"contests"`
	Settings   *model.Settings  `json:"settings,omitempty"`
}

// ImportResult summarises what an import re-created.
type ImportResult struct {
	Problems int
	Contests int
	Settings *model.Settings
}

// ExportService writes encrypted archives of a user's data to the vault
// and reads them back.
type ExportService struct {
	db        Database
	problems  *ProblemService
	contests  *ContestService
	vault     Vault
	encryptor Encryptor
	logger    Logger
	clock     Clock
}

func NewExportService(db Database, problems *ProblemService, contests *ContestService, vault Vault, encryptor Encryptor, logger Logger, clock Clock) *ExportService {
	return &ExportService{
		db:        db,
		problems:  problems,
		contests:  contests,
		vault:     vault,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
	}
}

// exportPrefix is the vault prefix holding one user's archives.
func exportPrefix(userID string) string {
	return path.Join("exports", userID) + "/"
}

// Export encrypts the user's problems, contests and settings into a new
// archive and returns its vault key.
func (s *ExportService) Export(ctx context.Context, identity Identity) (string, error) {
	if !identity.Valid() {
		return "", ErrNoIdentity
	}
	userID := identity.UserID

	problems, err := s.db.ListProblems(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reading problems: %w", err)
	}
	contests, err := s.db.ListContests(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reading contests: %w", err)
	}
	settings, err := s.db.GetSettings(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reading settings: %w", err)
	}

	now := s.clock.Now().UTC()
	archive := Archive{
		Version:    archiveVersion,
		UserID:     userID,
		ExportedAt: now.Format("2006-01-02T15:04:05Z"),
		Problems:   problems,
		Contests:   contests,
		Settings:   settings,
	}
	plaintext, err := json.Marshal(archive)
	if err != nil {
		return "", fmt.Errorf("encoding archive: %w", err)
	}

	var ciphertext bytes.Buffer
	if err := s.encryptor.Encrypt(bytes.NewReader(plaintext), &ciphertext); err != nil {
		return "", fmt.Errorf("encrypting archive: %w", err)
	}

	key := exportPrefix(userID) + now.Format("20060102T150405Z") + ".json.age"
	size := int64(ciphertext.Len())
	if err := s.vault.PutArchive(ctx, key, &ciphertext, size); err != nil {
		return "", fmt.Errorf("storing archive: %w", err)
	}

	s.logger.Info("export written", "key", key, "problems", len(problems), "contests", len(contests), "bytes", size)
	return key, nil
}

// ListExports returns the user's archive keys, oldest first.
func (s *ExportService) ListExports(ctx context.Context, identity Identity) ([]string, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}
	keys, err := s.vault.ListArchives(ctx, exportPrefix(identity.UserID))
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	return keys, nil
}

// Import decrypts the archive stored under key and re-creates its contests
// and problems under fresh IDs, relinking problems to their new contests.
// Settings are returned, not applied, so the caller can route them through
// its SettingsService.
func (s *ExportService) Import(ctx context.Context, identity Identity, key, passphrase string) (*ImportResult, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}

	var ciphertext bytes.Buffer
	if err := s.vault.GetArchive(ctx, key, &ciphertext); err != nil {
		return nil, fmt.Errorf("fetching archive: %w", err)
	}

	dc, err := s.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking key: %w", err)
	}
	var plaintext bytes.Buffer
	if err := dc.Decrypt(&ciphertext, &plaintext); err != nil {
		return nil, fmt.Errorf("decrypting archive: %w", err)
	}

	var archive Archive
	if err := json.Unmarshal(plaintext.Bytes(), &archive); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	if archive.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", archive.Version)
	}

	result := &ImportResult{Settings: archive.Settings}
	contestIDs := make(map[string]string, len(archive.Contests))
	for _, c := range archive.Contests {
		oldID := c.ID
		if _, err := s.contests.Add(ctx, identity.UserID, c); err != nil {
			return result, fmt.Errorf("importing contest %q: %w", c.Title, err)
		}
		contestIDs[oldID] = c.ID
		result.Contests++
	}
	for _, p := range archive.Problems {
		p.ContestID = contestIDs[p.ContestID]
		if _, err := s.problems.Add(ctx, identity.UserID, p); err != nil {
			return result, fmt.Errorf("importing problem %q: %w", p.Title, err)
		}
		result.Problems++
	}

	s.logger.Info("export imported", "key", key, "problems", result.Problems, "contests", result.Contests)
	return result, nil
}
