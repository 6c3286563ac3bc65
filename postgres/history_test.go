package postgres_test

import (
	"context"

	"github.com/xy-planning-network/junction/postgres"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

func (suite *DBTestSuite) TestHistoryStore() {
	// Arrange
	ctx := context.Background()
	store := postgres.NewHistoryStore(suite.db)
	entries := []stack.Entry{
		{RouteMethod: route.MethodPush, URI: "/a", Parameters: route.Parameters{}},
		{Name: "item", RouteMethod: route.MethodPush, URI: "/path/42", Parameters: route.Parameters{"id": {"42"}}},
	}

	// Act
	missing, err := store.Load(ctx, "history")

	// Assert
	suite.Require().Nil(err)
	suite.Require().Empty(missing)

	// Act
	err = store.Save(ctx, "history", entries)

	// Assert
	suite.Require().Nil(err)

	// Act
	loaded, err := store.Load(ctx, "history")

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(entries, loaded)

	// Act
	err = store.Save(ctx, "history", entries[:1])
	suite.Require().Nil(err)
	loaded, err = store.Load(ctx, "history")

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(entries[:1], loaded)

	// Act
	err = store.Save(ctx, "history", nil)
	suite.Require().Nil(err)
	loaded, err = store.Load(ctx, "history")

	// Assert
	suite.Require().Nil(err)
	suite.Require().Empty(loaded)
}

func (suite *DBTestSuite) TestHistoryStoreRestoresNavigator() {
	// Arrange
	ctx := context.Background()
	store := postgres.NewHistoryStore(suite.db)
	suite.Require().Nil(store.Save(ctx, "session-1", []stack.Entry{
		{RouteMethod: route.MethodReplaceAll, URI: "/home", Parameters: route.Parameters{}},
	}))

	r, err := route.New()
	suite.Require().Nil(err)

	// Act
	nav, err := stack.New(ctx, r, stack.WithStore(store, "session-1"))

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(1, nav.Len())

	other, err := stack.New(ctx, r, stack.WithStore(store, "session-2"))
	suite.Require().Nil(err)
	suite.Require().Zero(other.Len())
}
