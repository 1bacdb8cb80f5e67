package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test graph for autowiring: handler -> service -> repository -> database
type Repository struct {
	DB *Database
}

type Service struct {
	Repo *Repository
}

type Notifier interface {
	Notify(msg string)
}

type EmailNotifier struct {
	Sent []string
}

func (n *EmailNotifier) Notify(msg string) {
	n.Sent = append(n.Sent, msg)
}

func NewRepository(db *Database) *Repository {
	return &Repository{DB: db}
}

func NewService(repo *Repository) *Service {
	return &Service{Repo: repo}
}

func TestAutowirer(t *testing.T) {
	t.Run("it should reject a non-function constructor", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer()

		// WHEN
		err := autowirer.RegisterConstructor("database", &Database{})

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a function")
	})

	t.Run("it should reject a constructor with a bad return shape", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer()

		// WHEN
		err := autowirer.RegisterConstructor("database", func() (*Database, *Database, error) {
			return nil, nil, nil
		})

		// THEN
		require.Error(t, err)
	})

	t.Run("it should construct a registered type with its dependency chain", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "chain"} }).
			MustRegisterConstructor("repository", NewRepository).
			MustRegisterConstructor("service", NewService)
		c := New(WithResolver(autowirer))

		// WHEN
		service, err := ResolveAs[*Service](c, "service")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "chain", service.Repo.DB.DSN)
	})

	t.Run("it should prefer a container binding over construction on resolve", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "constructed"} })
		c := New(WithResolver(autowirer))
		pinned := &Database{DSN: "bound"}
		c.Set("database", pinned)

		// WHEN
		got, err := c.Resolve("database")

		// THEN
		require.NoError(t, err)
		assert.Same(t, pinned, got)
	})

	t.Run("it should always build fresh on construct", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "fresh"} })
		c := New(WithResolver(autowirer))
		c.Set("database", &Database{DSN: "bound"})

		// WHEN
		first, err := c.Construct("database", nil)
		require.NoError(t, err)
		second, err := c.Construct("database", nil)
		require.NoError(t, err)

		// THEN
		assert.NotSame(t, first, second)
		assert.Equal(t, "fresh", first.(*Database).DSN)
	})

	t.Run("it should use container bindings to satisfy constructor parameters", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "constructed"} }).
			MustRegisterConstructor("repository", NewRepository)
		c := New(WithResolver(autowirer))
		pinned := &Database{DSN: "pinned"}
		c.Set("database", pinned)

		// WHEN
		repo, err := ResolveAs[*Repository](c, "repository")

		// THEN
		require.NoError(t, err)
		assert.Same(t, pinned, repo.DB)
	})

	t.Run("it should honor explicit bindings over autowiring", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "wired"} }).
			MustRegisterConstructor("repository", NewRepository)
		c := New(WithResolver(autowirer))
		explicit := &Database{DSN: "explicit"}

		// WHEN
		repo, err := c.Construct("repository", Bindings{0: explicit})

		// THEN
		require.NoError(t, err)
		assert.Same(t, explicit, repo.(*Repository).DB)
	})

	t.Run("it should fail to resolve an unregistered id", func(t *testing.T) {
		// GIVEN
		c := New()

		// WHEN
		_, err := c.Resolve("ghost")

		// THEN
		require.ErrorIs(t, err, ErrCannotAutowire)
	})

	t.Run("it should fail to construct an unregistered type", func(t *testing.T) {
		// GIVEN
		c := New()

		// WHEN
		_, err := c.Construct("ghost", nil)

		// THEN
		require.ErrorIs(t, err, ErrNotConstructible)
	})

	t.Run("it should detect a construction cycle", func(t *testing.T) {
		// GIVEN
		type A struct{ DSN string }
		type B struct{ A *A }
		autowirer := NewAutowirer()
		autowirer.MustRegisterConstructor("a", func(b *B) *A { return &A{} })
		autowirer.MustRegisterConstructor("b", func(a *A) *B { return &B{A: a} })
		c := New(WithResolver(autowirer))

		// WHEN
		_, err := c.Resolve("a")

		// THEN
		require.ErrorIs(t, err, ErrCannotAutowire)
		assert.Contains(t, err.Error(), "construction cycle")
	})

	t.Run("it should propagate a constructor failure unchanged", func(t *testing.T) {
		// GIVEN
		boom := errors.New("no such host")
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() (*Database, error) { return nil, boom })
		c := New(WithResolver(autowirer))

		// WHEN
		_, err := c.Resolve("database")

		// THEN
		require.ErrorIs(t, err, boom)
	})

	t.Run("it should recover a panicking constructor into an error", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { panic("corrupted state") })
		c := New(WithResolver(autowirer))

		// WHEN
		_, err := c.Resolve("database")

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupted state")
	})
}

func TestCall(t *testing.T) {
	t.Run("it should inject the calling container", func(t *testing.T) {
		// GIVEN
		c := New()
		c.Set("dsn", "root@/app")

		// WHEN
		result, err := c.Call(func(c *Container) (string, error) {
			return GetAs[string](c, "dsn")
		}, nil)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "root@/app", result)
	})

	t.Run("it should mix explicit bindings with autowired parameters", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "wired"} })
		c := New(WithResolver(autowirer))

		// WHEN
		result, err := c.Call(func(db *Database, suffix string) string {
			return db.DSN + suffix
		}, Bindings{1: "?tls=true"})

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "wired?tls=true", result)
	})

	t.Run("it should match interface parameters against registered types", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("notifier", func() *EmailNotifier { return &EmailNotifier{} })
		c := New(WithResolver(autowirer))

		// WHEN
		result, err := c.Call(func(n Notifier) Notifier {
			n.Notify("deployed")
			return n
		}, nil)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []string{"deployed"}, result.(*EmailNotifier).Sent)
	})

	t.Run("it should prefer a type-key binding over constructing a registered type", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "constructed"} })
		c := New(WithResolver(autowirer))
		pinned := &Database{DSN: "pinned"}
		c.Set(TypeKey((*Database)(nil)), pinned)

		// WHEN
		result, err := c.Call(func(db *Database) *Database { return db }, nil)

		// THEN
		require.NoError(t, err)
		assert.Same(t, pinned, result)
	})

	t.Run("it should prefer a name-keyed binding over a type-key binding", func(t *testing.T) {
		// GIVEN
		autowirer := NewAutowirer().
			MustRegisterConstructor("database", func() *Database { return &Database{DSN: "constructed"} })
		c := New(WithResolver(autowirer))
		byName := &Database{DSN: "by-name"}
		c.Set("database", byName)
		c.Set(TypeKey((*Database)(nil)), &Database{DSN: "by-type-key"})

		// WHEN
		result, err := c.Call(func(db *Database) *Database { return db }, nil)

		// THEN
		require.NoError(t, err)
		assert.Same(t, byName, result)
	})

	t.Run("it should find parameters bound under their type key", func(t *testing.T) {
		// GIVEN
		c := New()
		c.Set(TypeKey((*Clock)(nil)), &Clock{Now: 1700000000})

		// WHEN
		result, err := c.Call(func(clock *Clock) int64 { return clock.Now }, nil)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), result)
	})

	t.Run("it should fail on an unmatchable parameter", func(t *testing.T) {
		// GIVEN
		c := New()

		// WHEN
		_, err := c.Call(func(clock *Clock) *Clock { return clock }, nil)

		// THEN
		require.ErrorIs(t, err, ErrCannotAutowireArgument)
	})

	t.Run("it should reject a non-function callable", func(t *testing.T) {
		// GIVEN
		c := New()

		// WHEN
		_, err := c.Call("not callable", nil)

		// THEN
		require.ErrorIs(t, err, ErrCannotAutowire)
	})

	t.Run("it should coerce a nil explicit binding to the zero value", func(t *testing.T) {
		// GIVEN
		c := New()

		// WHEN
		result, err := c.Call(func(db *Database) bool { return db == nil }, Bindings{0: nil})

		// THEN
		require.NoError(t, err)
		assert.Equal(t, true, result)
	})
}

func TestTypeKey(t *testing.T) {
	t.Run("it should strip pointers and qualify by package", func(t *testing.T) {
		assert.Equal(t, TypeKey(Database{}), TypeKey((*Database)(nil)))
		assert.Contains(t, TypeKey(&Database{}), "cascade-container.Database")
	})

	t.Run("it should fall back to the type string for unnamed types", func(t *testing.T) {
		assert.Equal(t, "string", TypeKey("x"))
		assert.Equal(t, "", TypeKey(nil))
	})
}
