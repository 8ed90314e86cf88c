package catalog

import "github.com/go-monolith/mono/pkg/helper"

// Event definitions for the products module.
// Subjects follow events.products.v1.<name>.
var (
	// ProductCreatedV1 is published after a product is stored.
	ProductCreatedV1 = helper.EventDefinition[ProductEvent]("products", "ProductCreated", "v1")

	// ProductUpdatedV1 is published after a patch is applied.
	ProductUpdatedV1 = helper.EventDefinition[ProductEvent]("products", "ProductUpdated", "v1")

	// ProductRemovedV1 is published after a soft delete.
	ProductRemovedV1 = helper.EventDefinition[ProductEvent]("products", "ProductRemoved", "v1")

	// ProductPurgedV1 is published after a hard delete.
	ProductPurgedV1 = helper.EventDefinition[ProductEvent]("products", "ProductPurged", "v1")
)
