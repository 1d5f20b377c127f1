package trade

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/shared"
)

// lockProducts takes an exclusive row lock on every distinct product in ids,
// always in ascending ID order so two documents touching the same products
// can never wait on each other in a cycle. The returned rows are the locked
// copies; callers mutate them in memory and write the quantity back.
func lockProducts(ctx context.Context, repo catalog.ProductRepository, ids []int64) (map[int64]*catalog.Product, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	locked := make(map[int64]*catalog.Product, len(unique))
	for _, id := range unique {
		product, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, productNotFound(id)
			}
			return nil, err
		}
		locked[id] = product
	}
	return locked, nil
}

func productNotFound(id int64) error {
	return shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("Product %d does not exist", id))
}
