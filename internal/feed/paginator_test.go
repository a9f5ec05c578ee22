package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/posts-service/internal/domain"
)

func makePosts(n int) []domain.Post {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Post, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Post{
			ID:        primitive.NewObjectID(),
			Text:      fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(n-i) * time.Minute),
		}
	}
	return out
}

func TestPaginate_SecondPageOfFifteen(t *testing.T) {
	page := Paginate(makePosts(15), 10, 2)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 2, page.NumPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestPaginate_PastTheEndServesLastPage(t *testing.T) {
	page := Paginate(makePosts(15), 10, 99)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Items, 5)
}

func TestPaginate_AtOrBelowOneServesFirstPage(t *testing.T) {
	for _, requested := range []int{-3, 0, 1} {
		page := Paginate(makePosts(15), 10, requested)
		assert.Equal(t, 1, page.Number, "requested=%d", requested)
		assert.Len(t, page.Items, 10)
		assert.True(t, page.HasNext)
		assert.False(t, page.HasPrev)
	}
}

func TestPaginate_EmptyInputIsOneEmptyPage(t *testing.T) {
	page := Paginate(nil, 10, 1)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

// floor(n/p) full pages, n mod p on the last one, totals add up
func TestPaginate_PageArithmetic(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 15, 20, 33} {
		for _, p := range []int{1, 3, 10} {
			posts := makePosts(n)
			first := Paginate(posts, p, 1)

			wantPages := (n + p - 1) / p
			if wantPages < 1 {
				wantPages = 1
			}
			assert.Equal(t, wantPages, first.NumPages, "n=%d p=%d", n, p)

			total := 0
			for num := 1; num <= first.NumPages; num++ {
				page := Paginate(posts, p, num)
				assert.LessOrEqual(t, len(page.Items), p)
				if num < first.NumPages && n > 0 {
					assert.Len(t, page.Items, p, "full page n=%d p=%d num=%d", n, p, num)
				}
				total += len(page.Items)
			}
			assert.Equal(t, n, total, "n=%d p=%d", n, p)
		}
	}
}

func TestPaginate_PreservesOrder(t *testing.T) {
	posts := makePosts(15)
	page := Paginate(posts, 10, 2)
	assert.Equal(t, posts[10].ID, page.Items[0].ID)
	assert.Equal(t, posts[14].ID, page.Items[4].ID)
}
