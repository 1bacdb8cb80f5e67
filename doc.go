/*
Package container implements a service container with lazy initialization,
per-lookup factories, aliasing, decoration and cascading layers.

	c := container.New()

	c.Set("dsn", "root:root@/app_db?charset=utf8")
	c.Deferred("db", func(c *container.Container) (*DB, error) {
		dsn, err := container.GetAs[string](c, "dsn")
		if err != nil {
			return nil, err
		}
		return OpenDB(dsn)
	})
	c.Factory("tx", func(c *container.Container) (*Tx, error) {
		db, err := container.GetAs[*DB](c, "db")
		if err != nil {
			return nil, err
		}
		return db.Begin()
	})

	request := c.Cascade()
	request.Set("db", testDB) // shadows the parent, parent untouched

Lookups check, in order: aliases, instances, deferred producers (evaluated
once and cached), factories (evaluated every time), and finally the parent
layer. Producers run through the autowiring call path, so their parameters
are resolved from the container.
*/
package container
