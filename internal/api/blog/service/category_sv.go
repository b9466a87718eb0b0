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

func (s *blogsService) CreateCategory(ctx context.Context, req blogs.CreateCategoryRequest, image *multipart.FileHeader) (blogs.CategoryResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	categorySlug := slug.Generate(req.Title)
	if categorySlug == "" {
		return blogs.CategoryResponse{}, blogs.ErrInvalidSlug
	}

	if image == nil {
		return blogs.CategoryResponse{}, blogs.ErrThumbnailRequired
	}

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.CategoryResponse{}, err
	}

	// checked up front so a taken slug never costs an upload
	_, err = repo.Categories.GetCategoryBySlug(ctx, categorySlug)
	switch {
	case err == nil:
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"slug":       categorySlug,
		}).Warn("Category slug already exists")
		return blogs.CategoryResponse{}, blogs.ErrSlugAlreadyExists
	case !errors.Is(err, blogs.ErrCategoryNotFound):
		return blogs.CategoryResponse{}, err
	}

	now := time.Now().UTC()
	categoryID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return blogs.CategoryResponse{}, err
	}

	category := entity.BlogCategory{
		ID:          categoryID,
		Title:       req.Title,
		Slug:        categorySlug,
		Description: req.Description,
		CreatedAt:   now,
	}

	_, err = s.uploader.Attach(ctx, image, upload.CategoryThumbnail(s.bucket), func(asset upload.Asset) error {
		category.ThumbnailURL = asset.URL
		return repo.Categories.CreateCategory(ctx, category)
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create category")
		return blogs.CategoryResponse{}, passThrough(err, blogs.ErrCreateCategory)
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"category_id": category.ID,
		"slug":        category.Slug,
	}).Info("Category created")

	return makeCategoryResponse(category), nil
}

func (s *blogsService) GetAllCategories(ctx context.Context) (blogs.CategoryListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.CategoryListResponse{}, err
	}

	categories, err := repo.Categories.GetAllCategories(ctx)
	if err != nil {
		return blogs.CategoryListResponse{}, err
	}

	res := blogs.CategoryListResponse{
		Categories: make([]blogs.CategoryResponse, 0, len(categories)),
	}
	for _, c := range categories {
		res.Categories = append(res.Categories, makeCategoryResponse(c))
	}

	return res, nil
}

func (s *blogsService) GetCategoryBySlug(ctx context.Context, categorySlug string) (blogs.CategoryDetailResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.blogsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return blogs.CategoryDetailResponse{}, err
	}

	category, err := repo.Categories.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, blogs.ErrCategoryNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"slug":       categorySlug,
			}).Warn("Category not found")
		}
		return blogs.CategoryDetailResponse{}, err
	}

	rows, _, err := repo.Blogs.GetBlogs(ctx, blogsRepository.BlogFilter{
		CategoryID: category.ID,
		Status:     entity.BlogStatusPublished,
	}, categoryPostsLimit, 0)
	if err != nil {
		return blogs.CategoryDetailResponse{}, err
	}

	res := blogs.CategoryDetailResponse{
		Category: makeCategoryResponse(category),
		Blogs:    make([]blogs.BlogResponse, 0, len(rows)),
	}
	for _, row := range rows {
		res.Blogs = append(res.Blogs, makeBlogResponse(row))
	}

	return res, nil
}

func (s *blogsService) DeleteCategory(ctx context.Context, id string) error {
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

	category, err := repo.Categories.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := repo.Blogs.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"category_id": id,
			"posts":       inUse,
		}).Warn("Refusing to delete category with posts")
		return blogs.ErrCategoryInUse
	}

	if err := repo.Categories.DeleteCategory(ctx, id); err != nil {
		return passThrough(err, blogs.ErrDeleteCategory)
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return blogs.ErrDeleteCategory
	}

	if asset, ok := s.uploader.AssetFromURL(s.bucket, category.ThumbnailURL); ok {
		s.uploader.Discard(ctx, asset)
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"category_id": id,
	}).Info("Category deleted")

	return nil
}
