package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/home/dto"
	"schoolhub_backend/internals/features/home/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/mailer"
)

const slugMaxLen = 180

type HomeService struct {
	DB          *gorm.DB
	Mailer      mailer.Mailer
	NotifyEmail string
	Now         func() time.Time
}

func NewHomeService(db *gorm.DB, m mailer.Mailer) *HomeService {
	return &HomeService{
		DB:          db,
		Mailer:      m,
		NotifyEmail: configs.GetEnv("CONTACT_NOTIFY_EMAIL", configs.GetEnv("ADMISSIONS_NOTIFY_EMAIL")),
		Now:         time.Now,
	}
}

/* ===================== News ===================== */

func (s *HomeService) newsQuery(ctx context.Context, f dto.NewsFilter) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(&model.NewsPostModel{})
	tx = helper.ApplyEquals(tx, map[string]any{"news_category": f.Category})
	if f.Published != nil {
		tx = tx.Where("news_is_published = ?", *f.Published)
	}
	return tx
}

func (s *HomeService) ListNews(ctx context.Context, q helper.ListQuery, f dto.NewsFilter) (helper.Page[model.NewsPostModel], error) {
	tx := helper.ApplySearch(s.newsQuery(ctx, f), q.Search, "news_title", "news_excerpt")
	return helper.FetchPage[model.NewsPostModel](ctx, tx, q, "news_published_at DESC, news_created_at DESC")
}

// LatestNews returns up to n published posts, newest first.
func (s *HomeService) LatestNews(ctx context.Context, n int) ([]model.NewsPostModel, error) {
	out := []model.NewsPostModel{}
	err := s.DB.WithContext(ctx).Where("news_is_published = ?", true).
		Order("news_published_at DESC").Limit(n).Find(&out).Error
	return out, err
}

// PublishedNews finds a post by slug; drafts are reported as missing.
func (s *HomeService) PublishedNews(ctx context.Context, slug string) (*model.NewsPostModel, error) {
	var m model.NewsPostModel
	err := s.DB.WithContext(ctx).First(&m, "news_slug = ? AND news_is_published = ?", slug, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("News not found")
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "load news")
	}
	return &m, nil
}

func (s *HomeService) GetNews(ctx context.Context, id uuid.UUID) (*model.NewsPostModel, error) {
	var m model.NewsPostModel
	err := s.DB.WithContext(ctx).First(&m, "news_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("News not found")
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "load news")
	}
	return &m, nil
}

func (s *HomeService) CreateNews(ctx context.Context, author *uuid.UUID, req dto.CreateNewsRequest) (*model.NewsPostModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	slug, err := helper.EnsureUniqueSlug(ctx, s.DB, helper.Slugify(req.NewsTitle, slugMaxLen), "news_posts", "news_slug")
	if err != nil {
		return nil, pkgErrors.Wrap(err, "news slug")
	}
	m := &model.NewsPostModel{
		NewsTitle:       req.NewsTitle,
		NewsSlug:        slug,
		NewsExcerpt:     req.NewsExcerpt,
		NewsContent:     req.NewsContent,
		NewsCategory:    req.NewsCategory,
		NewsIsPublished: req.NewsIsPublished,
		NewsAuthorID:    author,
	}
	if m.NewsIsPublished {
		now := s.Now()
		m.NewsPublishedAt = &now
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("Slug already in use")
		}
		return nil, pkgErrors.Wrap(err, "create news")
	}
	return m, nil
}

// UpdateNews stamps news_published_at the first time a post is published.
func (s *HomeService) UpdateNews(ctx context.Context, id uuid.UUID, req dto.UpdateNewsRequest) (*model.NewsPostModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.GetNews(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := req.Updates()
	if req.NewsIsPublished != nil && *req.NewsIsPublished && m.NewsPublishedAt == nil {
		updates["news_published_at"] = s.Now()
	}
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "update news")
	}
	return s.GetNews(ctx, id)
}

func (s *HomeService) DeleteNews(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.NewsPostModel{}, "news_id = ?", id)
	if res.Error != nil {
		return pkgErrors.Wrap(res.Error, "delete news")
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("News not found")
	}
	return nil
}

/* ===================== Programs ===================== */

func (s *HomeService) Programs(ctx context.Context) ([]model.ProgramModel, error) {
	out := []model.ProgramModel{}
	err := s.DB.WithContext(ctx).Order("program_order_index ASC, program_name ASC").Find(&out).Error
	return out, err
}

func (s *HomeService) GetProgram(ctx context.Context, id uuid.UUID) (*model.ProgramModel, error) {
	var m model.ProgramModel
	err := s.DB.WithContext(ctx).First(&m, "program_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("Program not found")
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "load program")
	}
	return &m, nil
}

func (s *HomeService) CreateProgram(ctx context.Context, req dto.CreateProgramRequest) (*model.ProgramModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	slug, err := helper.EnsureUniqueSlug(ctx, s.DB, helper.Slugify(req.ProgramName, slugMaxLen), "programs", "program_slug")
	if err != nil {
		return nil, pkgErrors.Wrap(err, "program slug")
	}
	m := req.ToModel(slug)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("Slug already in use")
		}
		return nil, pkgErrors.Wrap(err, "create program")
	}
	return m, nil
}

func (s *HomeService) UpdateProgram(ctx context.Context, id uuid.UUID, req dto.UpdateProgramRequest) (*model.ProgramModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	if updates := req.Updates(); len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
			return nil, pkgErrors.Wrap(err, "update program")
		}
	}
	return s.GetProgram(ctx, id)
}

func (s *HomeService) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.ProgramModel{}, "program_id = ?", id)
	if res.Error != nil {
		return pkgErrors.Wrap(res.Error, "delete program")
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("Program not found")
	}
	return nil
}

/* ===================== Contact ===================== */

// SubmitContact stores the message and forwards it to the office; a failed mail is only logged.
func (s *HomeService) SubmitContact(ctx context.Context, req dto.ContactRequest) (*model.ContactMessageModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "create contact message")
	}

	if s.Mailer != nil && s.NotifyEmail != "" {
		err := s.Mailer.Send(ctx, mailer.Message{
			ToName:    "School Office",
			ToAddress: s.NotifyEmail,
			Subject:   "Contact form: " + m.ContactSubject,
			Text:      fmt.Sprintf("From %s <%s>\n\n%s", m.ContactName, m.ContactEmail, m.ContactMessage),
		})
		if err != nil {
			configs.Logger("home").Warn().Err(err).Msg("[HOME][CONTACT] notify failed")
		}
	}
	return m, nil
}

func (s *HomeService) ContactMessages(ctx context.Context, q helper.ListQuery, handled *bool) (helper.Page[model.ContactMessageModel], error) {
	tx := s.DB.WithContext(ctx).Model(&model.ContactMessageModel{})
	if handled != nil {
		tx = tx.Where("contact_is_handled = ?", *handled)
	}
	tx = helper.ApplySearch(tx, q.Search, "contact_name", "contact_email", "contact_subject")
	return helper.FetchPage[model.ContactMessageModel](ctx, tx, q, "contact_created_at DESC")
}

// MarkHandled is idempotent; the bool reports whether the row changed.
func (s *HomeService) MarkHandled(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.ContactMessageModel{}).
		Where("contact_id = ? AND contact_is_handled = ?", id, false).
		Update("contact_is_handled", true)
	if res.Error != nil {
		return false, pkgErrors.Wrap(res.Error, "mark contact handled")
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.ContactMessageModel{}).Where("contact_id = ?", id).Count(&n).Error; err != nil {
		return false, pkgErrors.Wrap(err, "load contact message")
	}
	if n == 0 {
		return false, helper.NotFound("Message not found")
	}
	return false, nil
}
