package blogService

import (
	"context"
	"mime/multipart"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"portfolio/internal/api/blog"
	blogsRepository "portfolio/internal/api/blog/repository"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

type IBlogsService interface {
	CreateCategory(ctx context.Context, req blogs.CreateCategoryRequest, image *multipart.FileHeader) (blogs.CategoryResponse, error)
	GetAllCategories(ctx context.Context) (blogs.CategoryListResponse, error)
	GetCategoryBySlug(ctx context.Context, slug string) (blogs.CategoryDetailResponse, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateBlog(ctx context.Context, req blogs.CreateBlogRequest, image *multipart.FileHeader) (blogs.BlogResponse, error)
	GetBlogByID(ctx context.Context, id string, publishedOnly bool) (blogs.BlogResponse, error)
	GetBlogs(ctx context.Context, req blogs.ListBlogsRequest) (blogs.BlogListResponse, error)
	UpdateBlog(ctx context.Context, id string, req blogs.UpdateBlogRequest, image *multipart.FileHeader) (blogs.BlogResponse, error)
	DeleteBlog(ctx context.Context, id string) error
}

type blogsService struct {
	log       *logrus.Logger
	blogsRepo blogsRepository.Repository
	uploader  *upload.Uploader
	bucket    string
	policy    *bluemonday.Policy
	utils     utils.IUtils
}

func NewBlogsService(
	log *logrus.Logger,
	blogsRepo blogsRepository.Repository,
	uploader *upload.Uploader,
	bucket string,
	utils utils.IUtils,
) IBlogsService {
	return &blogsService{
		log:       log,
		blogsRepo: blogsRepo,
		uploader:  uploader,
		bucket:    bucket,
		policy:    newContentPolicy(),
		utils:     utils,
	}
}
