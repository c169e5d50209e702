package storage

import (
	"context"
	"fmt"
	"strings"
)

func (s *StorageTestSuite) TestURLs_NewURLs() {
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, err := NewURLs(context.Background(), db)
			s.Require().NoError(err)

			var count int
			s.Require().NoError(db.Get(&count, "SELECT COUNT(*) FROM urls"))
			s.Equal(0, count)
			s.Require().NoError(db.Get(&count, "SELECT COUNT(*) FROM url_params"))
			s.Equal(0, count)

			// second init on existing tables is fine
			_, err = NewURLs(context.Background(), db)
			s.Require().NoError(err)
		})
	}

	_, err := NewURLs(context.Background(), nil)
	s.Require().Error(err)
}

func (s *StorageTestSuite) TestURLs_Upsert() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, _ := s.newStores(db)
			u := mustURL(s.T(), "https://example.com/page?b=2&a=1")

			res, err := urls.Upsert(ctx, u, "https://Example.com/page?b=2&a=1", NotSpam, false)
			s.Require().NoError(err)
			s.Equal(Inserted, res.Kind)
			s.NotZero(res.ID)
			s.Nil(res.Old)
			firstID := res.ID

			s.Run("same designation is no change", func() {
				res, err := urls.Upsert(ctx, u, "", NotSpam, false)
				s.Require().NoError(err)
				s.Equal(NoChange, res.Kind)
				s.False(res.Refused)
				s.Equal(firstID, res.ID)
			})

			s.Run("automatic update of automatic entry", func() {
				res, err := urls.Upsert(ctx, u, "", Spam, false)
				s.Require().NoError(err)
				s.Equal(Updated, res.Kind)
				s.Equal(firstID, res.ID)
				s.Require().NotNil(res.Old)
				s.Equal(NotSpam, res.Old.Designation)
				s.False(res.Old.ManuallyReviewed)
			})

			s.Run("manual update", func() {
				res, err := urls.Upsert(ctx, u, "", NotSpam, true)
				s.Require().NoError(err)
				s.Equal(Updated, res.Kind)
				s.Equal(Spam, res.Old.Designation)
			})

			s.Run("automatic never overwrites manual", func() {
				for _, d := range []Designation{Spam, NotSpam, Aggregator} {
					res, err := urls.Upsert(ctx, u, "", d, false)
					s.Require().NoError(err)
					s.Equal(NoChange, res.Kind)
					s.True(res.Refused)
				}
				e, err := urls.Lookup(ctx, u, false)
				s.Require().NoError(err)
				s.Require().NotNil(e)
				s.Equal(NotSpam, e.Designation)
				s.True(e.ManuallyReviewed)
			})

			s.Run("manual same designation is no change", func() {
				res, err := urls.Upsert(ctx, u, "", NotSpam, true)
				s.Require().NoError(err)
				s.Equal(NoChange, res.Kind)
				s.False(res.Refused)
			})

			s.Run("single row", func() {
				count, err := urls.Count(ctx)
				s.Require().NoError(err)
				s.Equal(1, count)
				var params int
				s.Require().NoError(db.Get(&params, "SELECT COUNT(*) FROM url_params"))
				s.Equal(2, params)
			})

			s.Run("entry keeps original url and params", func() {
				e, err := urls.Lookup(ctx, u, true)
				s.Require().NoError(err)
				s.Require().NotNil(e)
				s.Equal("https://Example.com/page?b=2&a=1", e.OriginalURL)
				s.Equal(2, e.ParamCount)
				s.Equal("a=1&b=2", e.Query)
				s.Equal(u.String(), e.SanitizedURL())
			})
		})
	}
}

func (s *StorageTestSuite) TestURLs_Lookup() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, _ := s.newStores(db)

			add := func(raw string, d Designation, manual bool) int64 {
				res, err := urls.Upsert(ctx, mustURL(s.T(), raw), raw, d, manual)
				s.Require().NoError(err)
				return res.ID
			}

			exact := add("https://shop.example.com/item?id=1&ref=x", Spam, false)
			subsetA := add("https://sub.example.org/p?a=1&b=2&c=3", NotSpam, true)
			scenarioA := add("https://four.example.org/p?a=1&d=4", NotSpam, false)
			add("https://four.example.org/p?a=1&b=2&c=3&d=4&e=5", Spam, false)
			domain := add("https://spam.example.net", Spam, false)
			pathEntry := add("https://good.example.net/blog", NotSpam, false)
			manualPath := add("https://mixed.example.com/", Aggregator, true)
			autoPath := add("https://mixed.example.com/a", Spam, false)

			tests := []struct {
				name       string
				url        string
				manualOnly bool
				wantID     int64
			}{
				{name: "exact match", url: "https://shop.example.com/item?ref=x&id=1", wantID: exact},
				{name: "subset with extra param", url: "https://sub.example.org/p?a=1&b=2&c=3&d=4", wantID: subsetA},
				{name: "stored superset is not a candidate", url: "https://four.example.org/p?a=1&b=2&c=3&d=4", wantID: scenarioA},
				{name: "partial stored set not matched", url: "https://sub.example.org/p?a=1&b=2"},
				{name: "subset manual only", url: "https://sub.example.org/p?a=1&b=2&c=3&z=0", manualOnly: true, wantID: subsetA},
				{name: "destructure to domain", url: "https://deep.spam.example.net/x/y?q=1", wantID: domain},
				{name: "destructure subdomain path", url: "https://spam.example.net/anything", wantID: domain},
				{name: "path prefix", url: "https://good.example.net/blog/post/1", wantID: pathEntry},
				{name: "path sibling not matched", url: "https://good.example.net/blogger"},
				{name: "automatic deeper entry wins", url: "https://mixed.example.com/a/b", wantID: autoPath},
				{name: "manual only skips automatic", url: "https://mixed.example.com/a/b", manualOnly: true, wantID: manualPath},
				{name: "manual only misses automatic domain", url: "https://spam.example.net/x", manualOnly: true},
				{name: "unknown host", url: "https://unknown.example.com/x"},
				{name: "query entries not used for host path", url: "https://shop.example.com/item"},
			}

			for _, test := range tests {
				s.Run(test.name, func() {
					e, err := urls.Lookup(ctx, mustURL(s.T(), test.url), test.manualOnly)
					s.Require().NoError(err)
					if test.wantID == 0 {
						s.Nil(e, "unexpected match %+v", e)
						return
					}
					s.Require().NotNil(e)
					s.Equal(test.wantID, e.ID)
				})
			}
		})
	}
}

func (s *StorageTestSuite) TestURLs_LookupSubsetTie() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, _ := s.newStores(db)

			first, err := urls.Upsert(ctx, mustURL(s.T(), "https://tie.example.com/p?a=1&b=2"), "", Spam, false)
			s.Require().NoError(err)
			_, err = urls.Upsert(ctx, mustURL(s.T(), "https://tie.example.com/p?c=3&d=4"), "", NotSpam, false)
			s.Require().NoError(err)

			e, err := urls.Lookup(ctx, mustURL(s.T(), "https://tie.example.com/p?a=1&b=2&c=3&d=4"), false)
			s.Require().NoError(err)
			s.Require().NotNil(e)
			s.Equal(first.ID, e.ID, "equal specificity resolves to the lowest id")
		})
	}
}

func (s *StorageTestSuite) TestURLs_Remove() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, _ := s.newStores(db)
			u := mustURL(s.T(), "https://example.com/x?a=1&b=2")

			_, err := urls.Upsert(ctx, u, "", Spam, true)
			s.Require().NoError(err)

			info, err := urls.Remove(ctx, u)
			s.Require().NoError(err)
			s.Require().NotNil(info)
			s.Equal(Spam, info.Designation)
			s.True(info.ManuallyReviewed)
			s.Equal(2, info.ParamCount)

			var params int
			s.Require().NoError(db.Get(&params, "SELECT COUNT(*) FROM url_params"))
			s.Equal(0, params)

			info, err = urls.Remove(ctx, u)
			s.Require().NoError(err)
			s.Nil(info)

			// removed url can be added again
			res, err := urls.Upsert(ctx, u, "", NotSpam, false)
			s.Require().NoError(err)
			s.Equal(Inserted, res.Kind)
		})
	}
}

func (s *StorageTestSuite) TestURLs_ParamsMatchQuery() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, _ := s.newStores(db)

			for _, raw := range []string{"https://a.example.com/?x=1&y=2&z", "https://b.example.com/q?k=v", "https://c.example.com/"} {
				_, err := urls.Upsert(ctx, mustURL(s.T(), raw), raw, Spam, false)
				s.Require().NoError(err)
			}

			var rows []struct {
				ID         int64  `db:"id"`
				Query      string `db:"query"`
				ParamCount int    `db:"param_count"`
			}
			s.Require().NoError(db.Select(&rows, "SELECT id, query, param_count FROM urls ORDER BY id"))
			s.Require().Len(rows, 3)
			for _, row := range rows {
				var params []string
				s.Require().NoError(db.Select(&params, db.Adopt("SELECT param FROM url_params WHERE url_id = ? ORDER BY param"), row.ID))
				if row.Query == "" {
					s.Empty(params)
					s.Equal(0, row.ParamCount)
					continue
				}
				s.Equal(strings.Split(row.Query, "&"), params)
				s.Equal(len(params), row.ParamCount)
			}
		})
	}
}
