package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/outreachd/outreach/internal/entity"
)

// ContactColumns is the header WriteContacts emits. ReadContacts accepts it
// back along with the spreadsheet export names.
var ContactColumns = []string{
	"First Name", "Last Name", "Email Address", "Company", "Job Title",
	"City", "State", "Phone", "Status", "Notes",
}

// CSVContacts reads the pool from a spreadsheet export with the columns
// First Name, Last Name, Email Address, Company, Job Title, Business City and
// Business State. Rows without a first name are skipped.
type CSVContacts struct {
	Path string
}

func NewCSVContacts(path string) *CSVContacts {
	return &CSVContacts{Path: path}
}

func (s *CSVContacts) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Contact, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read contacts %s: %w", s.Path, err)
	}
	contacts, _, err := ReadContacts(bytes.NewReader(data), tenantID)
	return contacts, err
}

func (s *CSVContacts) FindByEmail(ctx context.Context, tenantID, email string) (*entity.Contact, error) {
	all, err := s.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	want := entity.NormalizeEmail(email)
	for _, c := range all {
		if c.NormalizedEmail() == want {
			return c, nil
		}
	}
	return nil, entity.ErrContactNotFound
}

// ReadContacts parses a contacts CSV. Rows that do not make a valid contact
// are left out and described in rowErrors, numbered from 1 after the header.
// A status column is honoured when it names a known status.
func ReadContacts(src io.Reader, tenantID string) (contacts []*entity.Contact, rowErrors []string, err error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, nil, fmt.Errorf("read contacts: %w", err)
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read contacts header: %w", err)
	}
	cols := columnIndex(header)
	get := func(rec []string, names ...string) string {
		for _, name := range names {
			if v := field(rec, cols, name); v != "" {
				return v
			}
		}
		return ""
	}

	for row := 1; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read contacts row %d: %w", row, err)
		}

		c, err := entity.NewContact(tenantID,
			get(rec, "first name", "first_name", "firstname"),
			get(rec, "last name", "last_name", "lastname"),
			get(rec, "email address", "email", "e-mail"),
			get(rec, "company"),
			get(rec, "job title", "title"),
		)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		c.City = get(rec, "business city", "city")
		c.State = get(rec, "business state", "state")
		c.Phone = get(rec, "phone", "business phone")
		c.Notes = get(rec, "notes")
		if status := get(rec, "status"); entity.IsKnownContactStatus(status) {
			c.Status = status
			c.SyncEmailStatus()
		}
		contacts = append(contacts, c)
	}
	return contacts, rowErrors, nil
}

// WriteContacts writes contacts under ContactColumns.
func WriteContacts(dst io.Writer, contacts []*entity.Contact) error {
	w := csv.NewWriter(dst)
	if err := w.Write(ContactColumns); err != nil {
		return fmt.Errorf("write contacts header: %w", err)
	}
	for _, c := range contacts {
		rec := []string{
			c.FirstName, c.LastName, c.Email, c.Company, c.JobTitle,
			c.City, c.State, c.Phone, c.Status, c.Notes,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write contact %s: %w", c.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}
