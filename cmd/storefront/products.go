package main

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/catering-ecom/internal/httpx"
	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/storage"
)

// listProductsHandler godoc
//
//	@Summary	List catering packages
//	@Tags		products
//	@Produce	json
//	@Param		q			query		string	false	"search in name and description"
//	@Param		category	query		string	false	"category"
//	@Param		limit		query		int		false	"page size (max 100)"
//	@Param		offset		query		int		false	"offset"
//	@Success	200			{object}	product.ListResponse
//	@Router		/products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			Q:        strings.TrimSpace(c.Query("q")),
			Category: strings.TrimSpace(c.Query("category")),
			Limit:    intQuery(c, "limit", 20),
			Offset:   intQuery(c, "offset", 0),
		}
		if q.Limit <= 0 || q.Limit > 100 {
			q.Limit = 20
		}
		if q.Offset < 0 {
			q.Offset = 0
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			logx.FromContext(c.Request.Context()).Error("list products failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, product.ListResponse{
			Q: q.Q, Category: q.Category, Limit: q.Limit, Offset: q.Offset, Items: items,
		})
	}
}

// getProductHandler godoc
//
//	@Summary	Get a catering package
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"product id"
//	@Success	200	{object}	product.Product
//	@Failure	404	{object}	product.HTTPError
//	@Router		/products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			productError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
//
//	@Summary	Create a catering package
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		product.CreateProductRequest	true	"package"
//	@Success	201		{object}	product.Product
//	@Failure	400		{object}	product.HTTPError
//	@Router		/admin/products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := req.Validate(); msg != "" {
			httpx.Error(c, http.StatusBadRequest, msg)
			return
		}
		features := req.Features
		if features == nil {
			features = []string{}
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
			Category:    strings.TrimSpace(req.Category),
			Servings:    req.Servings,
			Features:    features,
			IsPopular:   req.IsPopular,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			logx.FromContext(c.Request.Context()).Error("create product failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
//
//	@Summary	Partially update a catering package
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"product id"
//	@Param		body	body		product.UpdateProductRequest	true	"fields to change"
//	@Success	200		{object}	product.Product
//	@Failure	400		{object}	product.HTTPError
//	@Failure	404		{object}	product.HTTPError
//	@Router		/admin/products/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			productError(c, err)
			return
		}
		req.Apply(p)
		check := product.CreateProductRequest{Name: p.Name, Price: p.Price, Category: p.Category, Servings: p.Servings}
		if msg := check.Validate(); msg != "" {
			httpx.Error(c, http.StatusBadRequest, msg)
			return
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			productError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// deleteProductHandler godoc
//
//	@Summary	Delete a catering package without bookings
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"product id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Failure	409	{object}	httpx.ErrorResponse
//	@Router		/admin/products/{id} [delete]
func deleteProductHandler(repo product.Repository, disk storage.Disk) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		p, err := repo.GetByID(ctx, c.Param("id"))
		if err != nil {
			productError(c, err)
			return
		}
		ok, err := repo.Delete(ctx, p.ID)
		if err != nil {
			if errors.Is(err, product.ErrInUse) {
				httpx.Error(c, http.StatusConflict, "product cannot be deleted while it has orders")
				return
			}
			logx.FromContext(ctx).Error("delete product failed", "product_id", p.ID, "error", err)
			httpx.InternalError(c)
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "product not found")
			return
		}
		if key := storage.KeyFromURL(disk, p.ImageURL); key != "" {
			if err := disk.Delete(ctx, key); err != nil {
				logx.FromContext(ctx).Warn("product image not removed", "product_id", p.ID, "error", err)
			}
		}
		c.Status(http.StatusNoContent)
	}
}

// uploadProductImageHandler godoc
//
//	@Summary	Upload a package image
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"product id"
//	@Param		image	formData	file	true	"jpg, jpeg, png or webp"
//	@Success	200		{object}	product.Product
//	@Router		/admin/products/{id}/image [put]
func uploadProductImageHandler(repo product.Repository, disk storage.Disk) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		p, err := repo.GetByID(ctx, c.Param("id"))
		if err != nil {
			productError(c, err)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
		fh, err := c.FormFile("image")
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "image file is required")
			return
		}
		key, contentType, err := storage.ImageKey(path.Join("products", p.ID), fh.Filename)
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "image must be a jpg, jpeg, png or webp file")
			return
		}
		f, err := fh.Open()
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "image file is unreadable")
			return
		}
		defer f.Close()
		if err := disk.Put(ctx, key, f, contentType); err != nil {
			logx.FromContext(ctx).Error("store product image failed", "error", err)
			httpx.InternalError(c)
			return
		}
		if err := repo.SetImage(ctx, p.ID, disk.URL(key)); err != nil {
			_ = disk.Delete(ctx, key)
			productError(c, err)
			return
		}
		if old := storage.KeyFromURL(disk, p.ImageURL); old != "" {
			_ = disk.Delete(ctx, old)
		}
		p.ImageURL = disk.URL(key)
		c.JSON(http.StatusOK, p)
	}
}

func productError(c *gin.Context, err error) {
	if errors.Is(err, product.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "product not found")
		return
	}
	logx.FromContext(c.Request.Context()).Error("product store failed", "error", err)
	httpx.InternalError(c)
}
