package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/officehub/internal/blob"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const documentsPath = "documents"

var ErrDocumentNotFound = errors.New("document not found")

type DocumentInput struct {
	Title       string
	Date        string
	FileName    string
	ContentType string
	Data        []byte
}

// DocumentUpload is a document whose file is still being uploaded. The
// record is written once the upload finishes.
type DocumentUpload struct {
	Progress <-chan blob.Progress

	once sync.Once
	wait func() (*models.Document, error)
	doc  *models.Document
	err  error
}

// Wait blocks until the file is stored and the record written.
func (u *DocumentUpload) Wait() (*models.Document, error) {
	u.once.Do(func() { u.doc, u.err = u.wait() })
	return u.doc, u.err
}

type DocumentService struct {
	store store.Store
	blobs blob.Store
	now   clock
}

func NewDocumentService(s store.Store, blobs blob.Store) *DocumentService {
	return &DocumentService{store: s, blobs: blobs, now: time.Now}
}

// List returns documents by date, most recent first.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	docs, err := list[models.Document](ctx, s.store, documentsPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Date > docs[j].Date })
	return docs, nil
}

// Upload stores the file under documents/{unixMillis}_{fileName} and then
// records the document with its download URL. A failed upload writes no
// record.
func (s *DocumentService) Upload(ctx context.Context, in DocumentInput) (*DocumentUpload, error) {
	title := strings.TrimSpace(in.Title)
	fileName := path.Base(strings.TrimSpace(in.FileName))
	if title == "" || in.Date == "" || fileName == "" || fileName == "." || fileName == "/" {
		return nil, invalidf("title, date and file are required")
	}
	if !validDate(in.Date) {
		return nil, invalidf("date must be YYYY-MM-DD")
	}
	if len(in.Data) == 0 {
		return nil, invalidf("file is empty")
	}

	objectPath := fmt.Sprintf("%s/%d_%s", documentsPath, s.now().UnixMilli(), fileName)
	upload := s.blobs.Upload(ctx, objectPath, in.ContentType, in.Data)

	return &DocumentUpload{
		Progress: upload.Progress,
		wait: func() (*models.Document, error) {
			url, err := upload.Wait()
			if err != nil {
				log.Printf("Upload of %s failed: %v", objectPath, err)
				return nil, fmt.Errorf("upload %s: %w", fileName, err)
			}
			return create(ctx, s.store, documentsPath, &models.Document{
				Title:       title,
				Type:        blob.DocumentType(in.ContentType, fileName),
				Date:        in.Date,
				URL:         url,
				FileName:    fileName,
				StoragePath: objectPath,
			})
		},
	}, nil
}

// Delete removes the document record and then its file. Only owners delete
// documents.
func (s *DocumentService) Delete(ctx context.Context, session Session, id string) error {
	if !session.IsOwner {
		return ErrForbidden
	}
	p := store.Join(documentsPath, id)
	doc, err := load[models.Document](ctx, s.store, p, ErrDocumentNotFound)
	if err != nil {
		return err
	}
	if err := remove(ctx, s.store, p); err != nil {
		return err
	}
	if doc.StoragePath != "" {
		if err := s.blobs.Delete(ctx, doc.StoragePath); err != nil {
			log.Printf("Failed to delete file %s of document %s: %v", doc.StoragePath, id, err)
		}
	}
	return nil
}
