package blogService

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/blog"
	blogsRepository "portfolio/internal/api/blog/repository"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
	"portfolio/pkg/slug"
	"portfolio/pkg/upload"
)

func (s *blogsService) CreateBlog(ctx context.Context, req blogs.CreateBlogRequest, image *multipart.FileHeader) (blogs.BlogResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	status := entity.BlogStatusPublished
	if req.Status != "" {
		status = entity.BlogStatus(req.Status)
	}
	if !status.Valid() {
		return blogs.BlogResponse{}, blogs.ErrInvalidStatus
	}

	blogSlug := slug.Generate(req.Title)
	if req.Slug != "" {
		blogSlug = slug.Generate(req.Slug)
	}
	if blogSlug == "" {
		return blogs.BlogResponse{}, blogs.ErrInvalidSlug
	}

	content, err := s.sanitize(req.Content)
	if err != nil {
		return blogs.BlogResponse{}, err
	}

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogResponse{}, err
	}

	category, err := repo.Categories.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, blogs.ErrCategoryNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"category_id": req.CategoryID,
			}).Warn("Blog category not found")
		}
		return blogs.BlogResponse{}, err
	}

	exists, err := repo.Blogs.SlugExists(ctx, blogSlug)
	if err != nil {
		return blogs.BlogResponse{}, err
	}
	if exists {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"slug":       blogSlug,
		}).Warn("Blog slug already exists")
		return blogs.BlogResponse{}, blogs.ErrSlugAlreadyExists
	}

	now := time.Now().UTC()
	blogID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return blogs.BlogResponse{}, err
	}

	blog := entity.Blog{
		ID:         blogID,
		Title:      req.Title,
		Slug:       blogSlug,
		Content:    content,
		CategoryID: category.ID,
		Status:     status,
		ReadTime:   ReadTime(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == entity.BlogStatusPublished {
		blog.PublishedAt = &now
	}

	if image != nil {
		_, err = s.uploader.Attach(ctx, image, upload.BlogCover(s.bucket), func(asset upload.Asset) error {
			blog.CoverImage = asset.URL
			return repo.Blogs.CreateBlog(ctx, blog)
		})
	} else {
		err = repo.Blogs.CreateBlog(ctx, blog)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create blog")
		return blogs.BlogResponse{}, passThrough(err, blogs.ErrCreateBlog)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"blog_id":    blog.ID,
		"status":     blog.Status,
	}).Info("Blog created")

	return makeBlogResponse(blogsRepository.BlogRow{
		Blog:          blog,
		CategoryTitle: category.Title,
		CategorySlug:  category.Slug,
	}), nil
}

func (s *blogsService) GetBlogByID(ctx context.Context, id string, publishedOnly bool) (blogs.BlogResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogResponse{}, err
	}

	row, err := repo.Blogs.GetBlogByID(ctx, id)
	if err != nil {
		return blogs.BlogResponse{}, err
	}

	if publishedOnly && row.Status != entity.BlogStatusPublished {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         id,
		}).Debug("Draft requested from public route")
		return blogs.BlogResponse{}, blogs.ErrBlogNotFound
	}

	return makeBlogResponse(row), nil
}

func (s *blogsService) GetBlogs(ctx context.Context, req blogs.ListBlogsRequest) (blogs.BlogListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	page, limit := normalizePaging(req.Page, req.Limit)

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogListResponse{}, err
	}

	filter := blogsRepository.BlogFilter{CategoryID: req.CategoryID}
	if req.PublishedOnly {
		filter.Status = entity.BlogStatusPublished
	}

	rows, total, err := repo.Blogs.GetBlogs(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return blogs.BlogListResponse{}, err
	}

	res := blogs.BlogListResponse{
		Blogs: make([]blogs.BlogResponse, 0, len(rows)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, row := range rows {
		res.Blogs = append(res.Blogs, makeBlogResponse(row))
	}

	return res, nil
}

func (s *blogsService) UpdateBlog(ctx context.Context, id string, req blogs.UpdateBlogRequest, image *multipart.FileHeader) (blogs.BlogResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	content, err := s.sanitize(req.Content)
	if err != nil {
		return blogs.BlogResponse{}, err
	}

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.BlogResponse{}, err
	}

	existing, err := repo.Blogs.GetBlogByID(ctx, id)
	if err != nil {
		return blogs.BlogResponse{}, err
	}

	blog := existing.Blog
	blog.Title = req.Title
	blog.Content = content
	blog.ReadTime = ReadTime(content)
	blog.UpdatedAt = time.Now().UTC()

	if req.CategoryID != "" && req.CategoryID != blog.CategoryID {
		if _, err := repo.Categories.GetCategoryByID(ctx, req.CategoryID); err != nil {
			return blogs.BlogResponse{}, err
		}
		blog.CategoryID = req.CategoryID
	}

	if req.Status != "" {
		status := entity.BlogStatus(req.Status)
		if !status.Valid() {
			return blogs.BlogResponse{}, blogs.ErrInvalidStatus
		}
		blog.Status = status
	}
	if blog.Status == entity.BlogStatusPublished && blog.PublishedAt == nil {
		publishedAt := blog.UpdatedAt
		blog.PublishedAt = &publishedAt
	}

	if image != nil {
		_, err = s.uploader.Attach(ctx, image, upload.BlogCover(s.bucket), func(asset upload.Asset) error {
			blog.CoverImage = asset.URL
			return repo.Blogs.UpdateBlog(ctx, blog)
		})
	} else {
		err = repo.Blogs.UpdateBlog(ctx, blog)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"blog_id":    id,
			"error":      err.Error(),
		}).Warn("Failed to update blog")
		return blogs.BlogResponse{}, passThrough(err, blogs.ErrUpdateBlog)
	}

	if image != nil && existing.CoverImage != "" && existing.CoverImage != blog.CoverImage {
		if old, ok := s.uploader.AssetFromURL(s.bucket, existing.CoverImage); ok {
			s.uploader.Discard(ctx, old)
		}
	}

	updated, err := repo.Blogs.GetBlogByID(ctx, id)
	if err != nil {
		return blogs.BlogResponse{}, err
	}

	return makeBlogResponse(updated), nil
}

func (s *blogsService) DeleteBlog(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	existing, err := repo.Blogs.GetBlogByID(ctx, id)
	if err != nil {
		return err
	}

	if err := repo.Blogs.DeleteBlog(ctx, id); err != nil {
		return passThrough(err, blogs.ErrDeleteBlog)
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return blogs.ErrDeleteBlog
	}

	if asset, ok := s.uploader.AssetFromURL(s.bucket, existing.CoverImage); ok {
		s.uploader.Discard(ctx, asset)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"blog_id":    id,
	}).Info("Blog deleted")

	return nil
}
