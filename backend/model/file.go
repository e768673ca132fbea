package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ObjectType string

const (
	ObjectTypeFile   ObjectType = "FILE"
	ObjectTypeFolder ObjectType = "FOLDER"
)

type FileStatus string

const (
	FileStatusActive      FileStatus = "ACTIVE"
	FileStatusSoftDeleted FileStatus = "SOFT_DELETED"
	FileStatusDeleted     FileStatus = "DELETED"
)

// File represents one node of the hierarchical tree, either a file or a
// folder. Size, Mimetype and StorageKey are populated for FILE rows only.
// There is deliberately no uniqueness constraint on (ParentID, Name).
type File struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	ParentID   *int64     `json:"parentId" gorm:"index"`
	Name       string     `json:"name" gorm:"size:255;index"`
	Size       *int64     `json:"size"`
	Mimetype   *string    `json:"mimetype" gorm:"size:255"`
	ObjectType ObjectType `json:"objectType" gorm:"size:16"`
	StorageKey *string    `json:"storageKey" gorm:"size:255"`
	Status     FileStatus `json:"status" gorm:"size:16;index;default:ACTIVE"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ParentNotFoundError is raised when a referenced parent id has no row. The
// message is surfaced verbatim to API clients, so it stays human-readable
// instead of leaking a driver constraint error.
type ParentNotFoundError struct {
	ID int64
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("Parent folder with id %d does not exist", e.ID)
}

// FileStore is the metadata store over the files table. It holds an injected
// gorm handle; there is no package-level instance.
type FileStore struct {
	db *gorm.DB
}

func NewFileStore(db *gorm.DB) *FileStore {
	return &FileStore{db: db}
}

// ListFilesParams filters and paginates List. ParentID is tri-state: unset
// means no parent filter, null means root-level rows only. Page is 1-indexed;
// a zero Page or PageSize leaves the offset at zero, and a zero PageSize
// returns the whole match — the API boundary applies the default page size.
type ListFilesParams struct {
	Page     int
	PageSize int
	ParentID Patch[int64]
	Search   string
	Status   FileStatus
}

// List returns the matching rows ordered by creation time descending, plus
// the total match count ignoring pagination. Data and count run as two
// independent queries; under concurrent writes the total is approximate.
func (s *FileStore) List(params ListFilesParams) ([]*File, int64, error) {
	filtered := func() *gorm.DB {
		query := s.db.Model(&File{})
		if params.ParentID.IsSet() {
			if id := params.ParentID.Ptr(); id == nil {
				query = query.Where("parent_id IS NULL")
			} else {
				query = query.Where("parent_id = ?", *id)
			}
		}
		if params.Search != "" {
			query = query.Where("name LIKE ?", "%"+params.Search+"%")
		}
		if params.Status != "" {
			query = query.Where("status = ?", params.Status)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	offset := 0
	if params.Page > 0 && params.PageSize > 0 {
		offset = (params.Page - 1) * params.PageSize
	}
	query := filtered().Order("created_at DESC").Offset(offset)
	if params.PageSize > 0 {
		query = query.Limit(params.PageSize)
	}

	var files []*File
	if err := query.Find(&files).Error; err != nil {
		return nil, 0, fmt.Errorf("list files: %w", err)
	}
	return files, total, nil
}

// GetByID returns the row or (nil, nil) when absent.
func (s *FileStore) GetByID(id int64) (*File, error) {
	var file File
	err := s.db.First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file %d: %w", id, err)
	}
	return &file, nil
}

// CreateFileInput describes a new FILE or FOLDER row.
type CreateFileInput struct {
	ParentID   *int64
	Name       string
	Size       *int64
	Mimetype   *string
	ObjectType ObjectType
	StorageKey *string
}

// Create inserts a row and returns it re-read from the database, generated id
// and timestamps included. A missing parent fails with ParentNotFoundError
// before anything is written.
func (s *FileStore) Create(input CreateFileInput) (*File, error) {
	if err := s.checkParent(input.ParentID); err != nil {
		return nil, err
	}

	file := &File{
		ParentID:   input.ParentID,
		Name:       input.Name,
		Size:       input.Size,
		Mimetype:   input.Mimetype,
		ObjectType: input.ObjectType,
		StorageKey: input.StorageKey,
		Status:     FileStatusActive,
	}
	if err := s.db.Create(file).Error; err != nil {
		return nil, fmt.Errorf("create file entry: %w", err)
	}
	return s.GetByID(file.ID)
}

// UpdateFileInput lists the patchable columns. Nullable columns use Patch so
// "absent" and "set to NULL" stay distinct; Name and Status cannot be NULL
// and use plain pointers.
type UpdateFileInput struct {
	Name       *string
	Size       Patch[int64]
	Mimetype   Patch[string]
	ParentID   Patch[int64]
	StorageKey *string
	Status     *FileStatus
}

// Update applies the provided fields and returns the current row. With no
// fields set it is a read-only no-op. Updating an id that does not exist
// affects zero rows and reports no error, matching the delete/rename API
// contract of returning success for unknown ids.
func (s *FileStore) Update(id int64, input UpdateFileInput) (*File, error) {
	updates := map[string]any{}

	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Size.IsSet() {
		updates["size"] = input.Size.Ptr()
	}
	if input.Mimetype.IsSet() {
		updates["mimetype"] = input.Mimetype.Ptr()
	}
	if input.ParentID.IsSet() {
		if err := s.checkParent(input.ParentID.Ptr()); err != nil {
			return nil, err
		}
		updates["parent_id"] = input.ParentID.Ptr()
	}
	if input.StorageKey != nil {
		updates["storage_key"] = *input.StorageKey
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if len(updates) == 0 {
		return s.GetByID(id)
	}

	if err := s.db.Model(&File{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update file %d: %w", id, err)
	}
	return s.GetByID(id)
}

// SoftDelete hides the row from default listings without erasing it.
func (s *FileStore) SoftDelete(id int64) error {
	status := FileStatusSoftDeleted
	_, err := s.Update(id, UpdateFileInput{Status: &status})
	return err
}

// CreateFolder inserts a FOLDER row with no size, mimetype or storage key.
func (s *FileStore) CreateFolder(parentID *int64, name string) (*File, error) {
	return s.Create(CreateFileInput{
		ParentID:   parentID,
		Name:       name,
		ObjectType: ObjectTypeFolder,
	})
}

func (s *FileStore) checkParent(parentID *int64) error {
	if parentID == nil {
		return nil
	}
	var count int64
	if err := s.db.Model(&File{}).Where("id = ?", *parentID).Count(&count).Error; err != nil {
		return fmt.Errorf("check parent %d: %w", *parentID, err)
	}
	if count == 0 {
		return &ParentNotFoundError{ID: *parentID}
	}
	return nil
}
