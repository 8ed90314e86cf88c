package catalog

import (
	"context"
	"time"

	"github.com/example/catalog-service/domain/product"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// Handlers always return a nil Go error; failures travel in the reply's error field.

// createProduct handles the products.create_product service request.
func (m *Module) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductReply, error) {
	if err := req.requestError(); err != nil {
		return ProductReply{Error: m.replyError("create_product", 0, err)}, nil
	}
	in := CreateInput{
		Name:        req.Name,
		Price:       req.Price,
		SKU:         req.SKU,
		Description: req.Description,
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}

	p, err := m.service.Create(ctx, in)
	if err != nil {
		return ProductReply{Error: m.replyError("create_product", 0, err)}, nil
	}

	m.publish("ProductCreated", p, func(evt ProductEvent) error {
		return ProductCreatedV1.Publish(m.eventBus, evt, nil)
	})
	return ProductReply{ProductResponse: toProductResponse(p)}, nil
}

// findAllProducts handles the products.find_all_products service request.
func (m *Module) findAllProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsReply, error) {
	if err := req.requestError(); err != nil {
		return ListProductsReply{Error: m.replyError("find_all_products", 0, err)}, nil
	}
	page, limit := DefaultPage, DefaultLimit
	if req.Page != nil {
		page = *req.Page
	}
	if req.Limit != nil {
		limit = *req.Limit
	}

	result, err := m.service.ListPage(ctx, page, limit)
	if err != nil {
		return ListProductsReply{Error: m.replyError("find_all_products", 0, err)}, nil
	}

	resp := &ListProductsResponse{
		Data: make([]ProductResponse, 0, len(result.Data)),
		Meta: result.Meta,
	}
	for i := range result.Data {
		resp.Data = append(resp.Data, *toProductResponse(&result.Data[i]))
	}
	return ListProductsReply{ListProductsResponse: resp}, nil
}

// findOneProduct handles the products.find_one_product service request.
func (m *Module) findOneProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductReply, error) {
	if err := req.requestError(); err != nil {
		return ProductReply{Error: m.replyError("find_one_product", 0, err)}, nil
	}
	id := int64(req.ID)
	if err := requireID(id); err != nil {
		return ProductReply{Error: m.replyError("find_one_product", id, err)}, nil
	}

	p, err := m.service.GetOne(ctx, id, req.ActiveOnly)
	if err != nil {
		return ProductReply{Error: m.replyError("find_one_product", id, err)}, nil
	}
	return ProductReply{ProductResponse: toProductResponse(p)}, nil
}

// updateOneProduct handles the products.update_one_product service request.
func (m *Module) updateOneProduct(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (ProductReply, error) {
	if err := req.requestError(); err != nil {
		return ProductReply{Error: m.replyError("update_one_product", 0, err)}, nil
	}
	id := int64(req.ID)
	if err := requireID(id); err != nil {
		return ProductReply{Error: m.replyError("update_one_product", id, err)}, nil
	}

	patch := req.ToPatch()
	if patch.IsEmpty() {
		m.logger.Debug("Update carries no fields, only updated_at changes", "id", id)
	}

	p, err := m.service.Update(ctx, id, patch)
	if err != nil {
		return ProductReply{Error: m.replyError("update_one_product", id, err)}, nil
	}

	m.publish("ProductUpdated", p, func(evt ProductEvent) error {
		return ProductUpdatedV1.Publish(m.eventBus, evt, nil)
	})
	return ProductReply{ProductResponse: toProductResponse(p)}, nil
}

// deleteOneProduct handles the products.delete_one_product service request.
func (m *Module) deleteOneProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (ProductReply, error) {
	if err := req.requestError(); err != nil {
		return ProductReply{Error: m.replyError("delete_one_product", 0, err)}, nil
	}
	id := int64(req.ID)
	if err := requireID(id); err != nil {
		return ProductReply{Error: m.replyError("delete_one_product", id, err)}, nil
	}

	p, err := m.service.Remove(ctx, id)
	if err != nil {
		return ProductReply{Error: m.replyError("delete_one_product", id, err)}, nil
	}

	m.publish("ProductRemoved", p, func(evt ProductEvent) error {
		return ProductRemovedV1.Publish(m.eventBus, evt, nil)
	})
	return ProductReply{ProductResponse: toProductResponse(p)}, nil
}

// hardDeleteProduct handles the products.hard_delete_product service request.
func (m *Module) hardDeleteProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (HardDeleteReply, error) {
	if err := req.requestError(); err != nil {
		return HardDeleteReply{Error: m.replyError("hard_delete_product", 0, err)}, nil
	}
	id := int64(req.ID)
	if err := requireID(id); err != nil {
		return HardDeleteReply{Error: m.replyError("hard_delete_product", id, err)}, nil
	}

	// Read first so the purge event can carry the name.
	p, err := m.service.GetOne(ctx, id, false)
	if err != nil {
		return HardDeleteReply{Error: m.replyError("hard_delete_product", id, err)}, nil
	}
	if err := m.service.HardRemove(ctx, id); err != nil {
		return HardDeleteReply{Error: m.replyError("hard_delete_product", id, err)}, nil
	}

	m.logger.Warn("Product physically deleted", "id", id)
	p.Available = false
	m.publish("ProductPurged", p, func(evt ProductEvent) error {
		return ProductPurgedV1.Publish(m.eventBus, evt, nil)
	})
	return HardDeleteReply{HardDeleteResponse: &HardDeleteResponse{Deleted: true, ID: id}}, nil
}

func requireID(id int64) error {
	if id < 1 {
		return product.InvalidInput("id must be a positive integer")
	}
	return nil
}

// replyError logs err and converts it into the reply body.
func (m *Module) replyError(command string, id int64, err error) *ErrorResponse {
	resp := toErrorResponse(err)
	switch resp.Kind {
	case product.KindInvalidInput, product.KindNotFound:
		m.logger.Debug("Request rejected",
			"command", command, "id", id, "kind", resp.Kind, "message", resp.Message)
	default:
		m.logger.WithError(err).Error("Request failed",
			"command", command, "id", id, "kind", resp.Kind)
	}
	return resp
}

// publish emits a product event. Failures are logged and never fail the request.
func (m *Module) publish(name string, p *product.Product, send func(ProductEvent) error) {
	if m.eventBus == nil {
		return
	}
	evt := ProductEvent{
		EventID:    uuid.NewString(),
		ProductID:  p.ID,
		Name:       p.Name,
		Available:  p.Available,
		OccurredAt: time.Now().UTC(),
	}
	if err := send(evt); err != nil {
		m.logger.Warn("Failed to publish event", "event", name, "id", p.ID, "error", err)
	}
}
