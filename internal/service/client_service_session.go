// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkhiriev/go-lastpass/internal/adapter"
	"github.com/mkhiriev/go-lastpass/internal/config"
	"github.com/mkhiriev/go-lastpass/internal/logger"
	"github.com/mkhiriev/go-lastpass/internal/store"
	"github.com/mkhiriev/go-lastpass/keys"
	"github.com/mkhiriev/go-lastpass/models"
	"github.com/mkhiriev/go-lastpass/vault"
)

type sessionService struct {
	cfg       config.ClientApp
	adapter   adapter.ServerAdapter
	snapshots store.SnapshotStore
	logger    *logger.Logger

	mu         sync.Mutex
	opened     bool
	session    models.Session
	master     keys.DecryptionKey
	private    keys.PrivateKey
	iterations int
}

func NewSessionService(cfg config.ClientApp, serverAdapter adapter.ServerAdapter, snapshots store.SnapshotStore, log *logger.Logger) SessionService {
	return &sessionService{
		cfg:       cfg,
		adapter:   serverAdapter,
		snapshots: snapshots,
		logger:    log,
	}
}

func (s *sessionService) Open(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iterations, err := s.adapter.Iterations(ctx, s.cfg.Username)
	if err != nil {
		return fmt.Errorf("fetch iteration count: %w", err)
	}

	trustedID, err := EnsureTrustedID(s.cfg.TrustedIDFile)
	if err != nil {
		// Logging in still works without one, the user just may get an
		// extra two-factor prompt.
		s.logger.Warn().Err(err).Msg("could not load trusted device id")
		trustedID = ""
	}

	session, master, err := s.login(ctx, password, iterations, trustedID)

	var mismatch *adapter.IterationsMismatchError
	if errors.As(err, &mismatch) {
		s.logger.Info().
			Int("used", iterations).
			Int("correct", mismatch.Correct).
			Msg("server reported a different iteration count, retrying")
		iterations = mismatch.Correct
		session, master, err = s.login(ctx, password, iterations, trustedID)
	}
	if err != nil {
		return err
	}

	var private keys.PrivateKey
	if session.EncodedPrivateKey != "" {
		private, err = keys.PrivateKeyFromEncryptedDER(session.EncodedPrivateKey, master)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnwrapPrivateKey, err)
		}
	}

	s.session = session
	s.master = master
	s.private = private
	s.iterations = iterations
	s.opened = true

	s.logger.Debug().Str("uid", session.UID).Msg("session opened")
	return nil
}

func (s *sessionService) login(ctx context.Context, password string, iterations int, trustedID string) (models.Session, keys.DecryptionKey, error) {
	master := keys.CalculateDecryptionKey(s.cfg.Username, password, iterations)
	loginKey := keys.CalculateLoginKey(s.cfg.Username, password, iterations)

	session, err := s.adapter.Login(ctx, adapter.LoginRequest{
		Username:   s.cfg.Username,
		LoginKey:   loginKey,
		Iterations: iterations,
		TrustedID:  trustedID,
	})
	if err != nil {
		return models.Session{}, keys.DecryptionKey{}, err
	}

	return session, master, nil
}

func (s *sessionService) Vault(ctx context.Context) (*models.Vault, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return nil, ErrSessionNotOpened
	}

	blob, err := s.adapter.FetchVault(ctx, s.session)
	if err != nil {
		return nil, fmt.Errorf("fetch vault: %w", err)
	}

	v, err := vault.ParseWithLogger(blob, s.master, s.private, s.logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("decode vault: %w", err)
	}

	snap := models.Snapshot{
		Username:   s.cfg.Username,
		Iterations: s.iterations,
		Version:    v.Version,
		Blob:       blob,
		FetchedAt:  time.Now().UTC(),
	}
	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		// The vault is already decoded; a broken cache only hurts the next
		// offline open.
		s.logger.Warn().Err(err).Msg("could not cache vault snapshot")
	}

	return v, nil
}

func (s *sessionService) OfflineVault(ctx context.Context, password string) (*models.Vault, error) {
	snap, err := s.snapshots.GetSnapshot(ctx, s.cfg.Username)
	if err != nil {
		return nil, err
	}

	master := keys.CalculateDecryptionKey(s.cfg.Username, password, snap.Iterations)

	v, err := vault.ParseWithLogger(vault.MarkLocal(snap.Blob), master, keys.PrivateKey{}, s.logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("decode cached vault: %w", err)
	}

	return v, nil
}

func (s *sessionService) CurrentVersion(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return 0, ErrSessionNotOpened
	}

	return s.adapter.VaultVersion(ctx, s.session)
}

func (s *sessionService) AttachmentContent(ctx context.Context, account *models.Account, att models.Attachment) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return "", nil, ErrSessionNotOpened
	}

	attachmentKey, err := account.AttachmentKey(s.master)
	if err != nil {
		return "", nil, fmt.Errorf("decrypt attachment key: %w", err)
	}

	filename, err := att.Filename(attachmentKey)
	if err != nil {
		return "", nil, fmt.Errorf("decrypt attachment filename: %w", err)
	}

	body, err := s.adapter.LoadAttachment(ctx, s.session, att.StorageKey)
	if err != nil {
		return "", nil, fmt.Errorf("load attachment: %w", err)
	}

	content, err := attachmentKey.DecryptBase64(string(body))
	if err != nil {
		return "", nil, fmt.Errorf("decrypt attachment content: %w", err)
	}

	return filename, content, nil
}

func (s *sessionService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return nil
	}

	err := s.adapter.Logout(ctx, s.session)

	// Forget the keys even when the server call failed.
	s.opened = false
	s.session = models.Session{}
	s.master = keys.DecryptionKey{}
	s.private = keys.PrivateKey{}
	s.iterations = 0

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
