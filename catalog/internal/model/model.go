package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Paging struct {
	Page          int  `json:"page"`
	PageSize      int  `json:"pageSize"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	HasNext       bool `json:"hasNext"`
	HasPrevious   bool `json:"hasPrevious"`
}

// NewPaging derives the page counters for a 1-based page over total rows.
func NewPaging(page, size, total int) Paging {
	pages := 1
	if total > 0 && size > 0 {
		pages = (total + size - 1) / size
	}
	return Paging{
		Page:          page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    pages,
		HasNext:       page < pages,
		HasPrevious:   page > 1,
	}
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListAuthors struct {
	Paging `json:",inline"`
	Items  []Author `json:"items"`
}

type ListBookInstances struct {
	Paging `json:",inline"`
	Items  []BookInstance `json:"items"`
}

type Genre struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Language struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Author struct {
	ID          int    `json:"id" db:"id"`
	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	DateOfBirth *Date  `json:"date_of_birth" db:"date_of_birth"`
	DateOfDeath *Date  `json:"date_of_death" db:"date_of_death"`
}

func (a Author) DisplayName() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

type AuthorDetail struct {
	Author      `json:",inline"`
	DisplayName string `json:"display_name"`
	Books       []Book `json:"books"`
}

type Book struct {
	ID         int    `json:"id" db:"id"`
	Title      string `json:"title" db:"title"`
	ISBN       string `json:"isbn" db:"isbn"`
	Summary    string `json:"summary" db:"summary"`
	AuthorID   *int   `json:"author_id" db:"author_id"`
	LanguageID *int   `json:"language_id" db:"language_id"`
}

type BookDetail struct {
	Book         `json:",inline"`
	Author       *Author        `json:"author"`
	Language     *Language      `json:"language"`
	Genres       []Genre        `json:"genres"`
	DisplayGenre string         `json:"display_genre"`
	Instances    []BookInstance `json:"instances"`
}

// DisplayGenre joins the names of at most the first three genres.
func DisplayGenre(genres []Genre) string {
	const maxShown = 3
	names := make([]string, 0, maxShown)
	for i := 0; i < len(genres) && i < maxShown; i++ {
		names = append(names, genres[i].Name)
	}
	return strings.Join(names, ", ")
}

type LoanStatus string

const (
	LoanStatusMaintenance LoanStatus = "m"
	LoanStatusOnLoan      LoanStatus = "o"
	LoanStatusAvailable   LoanStatus = "a"
	LoanStatusReserved    LoanStatus = "r"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusMaintenance, LoanStatusOnLoan, LoanStatusAvailable, LoanStatusReserved:
		return true
	}
	return false
}

func (s LoanStatus) Label() string {
	switch s {
	case LoanStatusMaintenance:
		return "Maintenance"
	case LoanStatusOnLoan:
		return "On loan"
	case LoanStatusAvailable:
		return "Available"
	case LoanStatusReserved:
		return "Reserved"
	}
	return ""
}

type BookInstance struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	BookID      *int       `json:"book_id" db:"book_id"`
	BookTitle   *string    `json:"book_title" db:"book_title"`
	Imprint     string     `json:"imprint" db:"imprint"`
	DueBack     *Date      `json:"due_back" db:"due_back"`
	Status      LoanStatus `json:"status" db:"status"`
	Borrower    *string    `json:"borrower" db:"borrower"`
	IsOverdue   bool       `json:"is_overdue" db:"-"`
	DisplayName string     `json:"display_name,omitempty" db:"-"`
	StatusLabel string     `json:"status_label,omitempty" db:"-"`
}

// Overdue reports whether the copy was due strictly before today.
func (bi BookInstance) Overdue(today Date) bool {
	return bi.DueBack != nil && bi.DueBack.Before(today.Time)
}

// Annotate fills the derived fields: overdue flag, "<id> (<title>)" and the status label.
func (bi *BookInstance) Annotate(today Date) {
	title := ""
	if bi.BookTitle != nil {
		title = *bi.BookTitle
	}
	bi.IsOverdue = bi.Overdue(today)
	bi.DisplayName = fmt.Sprintf("%s (%s)", bi.ID, title)
	bi.StatusLabel = bi.Status.Label()
}

type AuthorRequest struct {
	FirstName   string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" form:"last_name" validate:"required,max=100"`
	DateOfBirth *Date  `json:"date_of_birth" form:"date_of_birth"`
	DateOfDeath *Date  `json:"date_of_death" form:"date_of_death"`
}

type RenewRequest struct {
	RenewalDate *Date `json:"renewal_date" form:"renewal_date" validate:"required"`
}

type RenewForm struct {
	Instance            BookInstance      `json:"instance"`
	ProposedRenewalDate Date              `json:"proposed_renewal_date"`
	Errors              map[string]string `json:"errors,omitempty"`
}

type InstanceStatusUpdate struct {
	InstanceID uuid.UUID  `json:"instance_id" validate:"required"`
	Status     LoanStatus `json:"status" validate:"required,oneof=m o a r"`
	Borrower   *string    `json:"borrower"`
	DueBack    *Date      `json:"due_back"`
}

type Index struct {
	NumBooks              int `json:"num_books"`
	NumInstances          int `json:"num_instances"`
	NumInstancesAvailable int `json:"num_instances_available"`
	NumAuthors            int `json:"num_authors"`
	NumGenres             int `json:"num_genres"`
	NumVisits             int `json:"num_visits"`
}

type User struct {
	ID           int      `db:"id"`
	Username     string   `db:"username"`
	PasswordHash string   `db:"password_hash"`
	Permissions  []string `db:"permissions"`
}

type AuthRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Stats aggregates the catalog activity of one user.
type Stats struct {
	UserName       string    `json:"username" db:"username"`
	LastUpdated    time.Time `json:"last_updated" db:"last_updated"`
	Renewals       int       `json:"renewals" db:"renewals"`
	AuthorsCreated int       `json:"authors_created" db:"authors_created"`
	AuthorsUpdated int       `json:"authors_updated" db:"authors_updated"`
	AuthorsDeleted int       `json:"authors_deleted" db:"authors_deleted"`
}

type StatsInfo struct {
	Data []Stats `json:"data"`
}
