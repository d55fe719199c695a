package viewstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/gridkit/blobstore"
)

const viewExt = ".json"

// headerPrefix starts the first line of a stored view, followed by the codec
// name.
const headerPrefix = "gridkit-view "

// BlobStore stores views as documents in a blobstore.BlobStore.
//
// When the underlying store implements blobstore.ConditionalStore, version
// checks hold across processes. Otherwise they are serialized within one
// process only; use DynamoStore or a conditional store when several
// processes edit the same grid.
type BlobStore struct {
	store blobstore.BlobStore
	opts  options
	mu    sync.Mutex
}

var _ Store = (*BlobStore)(nil)

// NewBlobStore creates a view store on top of store.
func NewBlobStore(store blobstore.BlobStore, optFns ...Option) *BlobStore {
	return &BlobStore{store: store, opts: applyOptions(optFns)}
}

func (s *BlobStore) gridPrefix(gridID string) string {
	return path.Join(s.opts.prefix, gridID) + "/"
}

func (s *BlobStore) blobName(gridID, name string) string {
	return s.gridPrefix(gridID) + name + viewExt
}

// Save implements Store.
func (s *BlobStore) Save(ctx context.Context, gridID string, v *View) error {
	if err := validateName("grid id", gridID); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob := s.blobName(gridID, v.Name)
	cs, conditional := s.store.(blobstore.ConditionalStore)

	var (
		data []byte
		rev  string
		err  error
	)
	if conditional {
		data, rev, err = cs.GetRevision(ctx, blob)
	} else {
		data, err = blobstore.ReadAll(ctx, s.store, blob)
	}

	var stored int64
	switch {
	case err == nil:
		current, err := s.parse(gridID, v.Name, data)
		if err != nil {
			return err
		}
		stored = current.Version
	case !errors.Is(err, blobstore.ErrNotFound):
		return err
	}
	if stored != v.Version {
		return fmt.Errorf("%w: view %q is at version %d, not %d", ErrConcurrentModification, v.Name, stored, v.Version)
	}

	next := *v
	next.Version = stored + 1
	next.UpdatedAt = time.Now().UTC()

	payload, err := s.opts.codec.Marshal(&next)
	if err != nil {
		return fmt.Errorf("viewstore: encode %q: %w", v.Name, err)
	}
	var buf bytes.Buffer
	buf.WriteString(headerPrefix)
	buf.WriteString(s.opts.codec.Name())
	buf.WriteByte('\n')
	buf.Write(payload)

	if conditional {
		err = cs.PutIf(ctx, blob, buf.Bytes(), rev)
		if errors.Is(err, blobstore.ErrPreconditionFailed) {
			return fmt.Errorf("%w: view %q changed during save", ErrConcurrentModification, v.Name)
		}
	} else {
		err = s.store.Put(ctx, blob, buf.Bytes())
	}
	if err != nil {
		return err
	}
	v.Version = next.Version
	v.UpdatedAt = next.UpdatedAt
	return nil
}

// Load implements Store.
func (s *BlobStore) Load(ctx context.Context, gridID, name string) (*View, error) {
	if err := validateName("grid id", gridID); err != nil {
		return nil, err
	}
	if err := validateName("view name", name); err != nil {
		return nil, err
	}

	data, err := blobstore.ReadAll(ctx, s.store, s.blobName(gridID, name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrViewNotFound, gridID, name)
		}
		return nil, err
	}
	return s.parse(gridID, name, data)
}

// parse decodes a stored view document. Documents without a header line
// use the default codec.
func (s *BlobStore) parse(gridID, name string, data []byte) (*View, error) {
	codecName := ""
	if rest, ok := bytes.CutPrefix(data, []byte(headerPrefix)); ok {
		header, payload, found := bytes.Cut(rest, []byte("\n"))
		if !found {
			return nil, fmt.Errorf("viewstore: %s/%s: truncated header", gridID, name)
		}
		codecName = string(header)
		data = payload
	}

	v, err := decodeView(codecName, data)
	if err != nil {
		return nil, fmt.Errorf("viewstore: decode %s/%s: %w", gridID, name, err)
	}
	return v, nil
}

// List implements Store.
func (s *BlobStore) List(ctx context.Context, gridID string) ([]string, error) {
	if err := validateName("grid id", gridID); err != nil {
		return nil, err
	}
	prefix := s.gridPrefix(gridID)
	blobs, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(blobs))
	for _, b := range blobs {
		rest := strings.TrimPrefix(b, prefix)
		if strings.Contains(rest, "/") || !strings.HasSuffix(rest, viewExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(rest, viewExt))
	}
	return names, nil
}

// Delete implements Store.
func (s *BlobStore) Delete(ctx context.Context, gridID, name string) error {
	if err := validateName("grid id", gridID); err != nil {
		return err
	}
	if err := validateName("view name", name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blobName := s.blobName(gridID, name)
	b, err := s.store.Open(ctx, blobName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return fmt.Errorf("%w: %s/%s", ErrViewNotFound, gridID, name)
		}
		return err
	}
	_ = b.Close()
	return s.store.Delete(ctx, blobName)
}
