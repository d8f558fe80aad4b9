package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrependRecent(t *testing.T) {
	t.Run("first order", func(t *testing.T) {
		assert.Equal(t, "100", PrependRecent("", "100"))
	})

	t.Run("most recent first", func(t *testing.T) {
		assert.Equal(t, "101,100", PrependRecent("100", "101"))
	})

	t.Run("evicts oldest past the cap", func(t *testing.T) {
		recent := ""
		for i := 1; i <= 6; i++ {
			recent = PrependRecent(recent, fmt.Sprintf("%d", i))
		}

		profile := UserProfile{RecentOrders: recent}
		list := profile.RecentOrderList()
		assert.Len(t, list, RecentOrdersCap)
		assert.Equal(t, []string{"6", "5", "4", "3", "2"}, list)
	})
}

func TestUserProfile_RecentOrderList(t *testing.T) {
	empty := UserProfile{}
	assert.Nil(t, empty.RecentOrderList())

	profile := UserProfile{RecentOrders: "3,2,1"}
	assert.Equal(t, []string{"3", "2", "1"}, profile.RecentOrderList())
}
