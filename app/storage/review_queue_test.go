package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/umputun/tg-linkcheck/app/storage/engine"
)

// purgeRecorder collects purged dependents, onKeyboard runs for every keyboard
type purgeRecorder struct {
	mu         sync.Mutex
	keyboards  []Keyboard
	sightings  []Sighting
	onKeyboard func(kb Keyboard) error
}

func (p *purgeRecorder) HandleKeyboard(_ context.Context, kb Keyboard) error {
	p.mu.Lock()
	p.keyboards = append(p.keyboards, kb)
	fn := p.onKeyboard
	p.mu.Unlock()
	if fn != nil {
		return fn(kb)
	}
	return nil
}

func (p *purgeRecorder) HandleSighting(_ context.Context, s Sighting) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sightings = append(p.sightings, s)
	if s.SenderName == "broken" {
		return errors.New("can't delete message")
	}
	return nil
}

func (s *StorageTestSuite) TestReviewQueue_NewReviewQueue() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, err := NewURLs(ctx, db)
			s.Require().NoError(err)

			_, err = NewReviewQueue(ctx, nil, urls)
			s.Require().Error(err)
			_, err = NewReviewQueue(ctx, db, nil)
			s.Require().Error(err)

			q, err := NewReviewQueue(ctx, db, urls)
			s.Require().NoError(err)
			count, err := q.Count(ctx)
			s.Require().NoError(err)
			s.Equal(0, count)
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_Enqueue() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, q := s.newStores(db)

			s.Run("new url is sent", func() {
				res, err := q.Enqueue(ctx, mustURL(s.T(), "https://new.example.com/a"), "https://NEW.example.com/a")
				s.Require().NoError(err)
				s.Equal(Sent, res.Kind)
				s.NotZero(res.ID)
			})

			s.Run("second enqueue is already on review", func() {
				res, err := q.Enqueue(ctx, mustURL(s.T(), "https://new.example.com/a"), "")
				s.Require().NoError(err)
				s.Equal(AlreadyOnReview, res.Kind)
			})

			s.Run("spam in store is already in database", func() {
				_, err := urls.Upsert(ctx, mustURL(s.T(), "https://spam.example.com"), "", Spam, false)
				s.Require().NoError(err)
				res, err := q.Enqueue(ctx, mustURL(s.T(), "https://spam.example.com/landing?id=1"), "")
				s.Require().NoError(err)
				s.Equal(AlreadyInDatabase, res.Kind)
				s.Require().NotNil(res.Entry)
				s.Equal(Spam, res.Entry.Designation)
			})

			s.Run("manual exact not spam is already in database", func() {
				u := mustURL(s.T(), "https://fine.example.com/page")
				_, err := urls.Upsert(ctx, u, "", NotSpam, true)
				s.Require().NoError(err)
				res, err := q.Enqueue(ctx, u, "")
				s.Require().NoError(err)
				s.Equal(AlreadyInDatabase, res.Kind)
				s.Equal(NotSpam, res.Entry.Designation)
			})

			s.Run("manual not spam on parent doesn't block", func() {
				res, err := q.Enqueue(ctx, mustURL(s.T(), "https://fine.example.com/page/child"), "")
				s.Require().NoError(err)
				s.Equal(Sent, res.Kind)
			})

			s.Run("automatic not spam doesn't block", func() {
				u := mustURL(s.T(), "https://auto.example.com/")
				_, err := urls.Upsert(ctx, u, "", NotSpam, false)
				s.Require().NoError(err)
				res, err := q.Enqueue(ctx, u, "")
				s.Require().NoError(err)
				s.Equal(Sent, res.Kind)
			})

			s.Run("manual spam on parent wins over automatic not spam", func() {
				_, err := urls.Upsert(ctx, mustURL(s.T(), "https://mixed.example.com"), "", Spam, true)
				s.Require().NoError(err)
				page := mustURL(s.T(), "https://mixed.example.com/page")
				_, err = urls.Upsert(ctx, page, "", NotSpam, false)
				s.Require().NoError(err)

				res, err := q.Enqueue(ctx, page, "")
				s.Require().NoError(err)
				s.Equal(AlreadyInDatabase, res.Kind)
				s.Require().NotNil(res.Entry)
				s.Equal(Spam, res.Entry.Designation)
				s.True(res.Entry.ManuallyReviewed)
			})

			count, err := q.Count(ctx)
			s.Require().NoError(err)
			s.Equal(3, count, "rejected enqueues leave no rows")
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_EnqueueConcurrent() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, q := s.newStores(db)
			u := mustURL(s.T(), "https://race.example.com/x")

			const workers = 20
			results := make(chan EnqueueKind, workers)
			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, err := q.Enqueue(ctx, u, "")
					if err != nil {
						s.T().Errorf("enqueue failed: %v", err)
						return
					}
					results <- res.Kind
				}()
			}
			wg.Wait()
			close(results)

			counts := map[EnqueueKind]int{}
			for k := range results {
				counts[k]++
			}
			s.Equal(1, counts[Sent])
			s.Equal(workers-1, counts[AlreadyOnReview])
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_DequeueOldest() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, q := s.newStores(db)

			item, err := q.DequeueOldest(ctx)
			s.Require().NoError(err)
			s.Nil(item, "empty queue")

			var want []string
			for i := range 4 {
				u := mustURL(s.T(), fmt.Sprintf("https://rot%d.example.com/", i))
				res, err := q.Enqueue(ctx, u, fmt.Sprintf("rot%d.example.com", i))
				s.Require().NoError(err)
				s.Require().Equal(Sent, res.Kind)
				want = append(want, u.String())
			}

			for round := range 3 {
				var got []string
				for range len(want) {
					item, err := q.DequeueOldest(ctx)
					s.Require().NoError(err)
					s.Require().NotNil(item)
					got = append(got, item.SanitizedURL)
				}
				s.Equal(want, got, "round %d", round)
			}

			// a new url was never sent and goes first
			fresh := mustURL(s.T(), "https://fresh.example.com/")
			_, err = q.Enqueue(ctx, fresh, "")
			s.Require().NoError(err)
			item, err = q.DequeueOldest(ctx)
			s.Require().NoError(err)
			s.Equal(fresh.String(), item.SanitizedURL)
			item, err = q.DequeueOldest(ctx)
			s.Require().NoError(err)
			s.Equal(want[0], item.SanitizedURL)
			s.Equal("rot0.example.com", item.OriginalURL)
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_Sightings() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, q := s.newStores(db)
			u := mustURL(s.T(), "https://seen.example.com/a")
			res, err := q.Enqueue(ctx, u, "")
			s.Require().NoError(err)

			s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -100, MessageID: 1, SenderName: "bob"}, u))
			s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -100, MessageID: 1, SenderName: "bob"}, u))
			s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -100, MessageID: 2, SenderName: "eve"}, u))

			// not queued url is ignored
			s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -100, MessageID: 3}, mustURL(s.T(), "https://other.example.com")))

			sightings, err := q.PopSightings(ctx, res.ID)
			s.Require().NoError(err)
			s.ElementsMatch([]Sighting{{ChatID: -100, MessageID: 1, SenderName: "bob"}, {ChatID: -100, MessageID: 2, SenderName: "eve"}}, sightings)

			sightings, err = q.PopSightings(ctx, res.ID)
			s.Require().NoError(err)
			s.Empty(sightings)
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_Keyboards() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, q := s.newStores(db)
			first, err := q.Enqueue(ctx, mustURL(s.T(), "https://kb1.example.com/"), "")
			s.Require().NoError(err)
			second, err := q.Enqueue(ctx, mustURL(s.T(), "https://kb2.example.com/"), "")
			s.Require().NoError(err)

			s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 10, MessageID: 1}, first.ID))
			s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 11, MessageID: 1}, first.ID))
			// the same prompt switched to another url
			s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 11, MessageID: 1}, second.ID))

			err = q.KeyboardMade(ctx, Keyboard{ChatID: 12, MessageID: 1}, 99999)
			s.Require().ErrorIs(err, ErrNotQueued)

			kbs, err := q.PopKeyboards(ctx, first.ID)
			s.Require().NoError(err)
			s.Equal([]Keyboard{{ChatID: 10, MessageID: 1}}, kbs)
			kbs, err = q.PopKeyboards(ctx, second.ID)
			s.Require().NoError(err)
			s.Equal([]Keyboard{{ChatID: 11, MessageID: 1}}, kbs)
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_Delete() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, q := s.newStores(db)
			res, err := q.Enqueue(ctx, mustURL(s.T(), "https://del.example.com/"), "")
			s.Require().NoError(err)
			s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 1, MessageID: 1}, res.ID))

			err = q.Delete(ctx, res.ID)
			s.Require().Error(err)
			s.True(engine.IsForeignKeyViolation(err), "delete with dependents fails on foreign key, got %v", err)

			_, err = q.PopKeyboards(ctx, res.ID)
			s.Require().NoError(err)
			s.Require().NoError(q.Delete(ctx, res.ID))
			s.Require().ErrorIs(q.Delete(ctx, res.ID), ErrNotQueued)
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_Purge() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			_, q := s.newStores(db)
			q.WithRetry(RetryPolicy{Repeats: 3, Delay: time.Millisecond})

			s.Run("drains and deletes", func() {
				u := mustURL(s.T(), "https://purge.example.com/")
				res, err := q.Enqueue(ctx, u, "")
				s.Require().NoError(err)
				s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 1, MessageID: 5}, res.ID))
				s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 2, MessageID: 6}, res.ID))
				s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -1, MessageID: 7, SenderName: "broken"}, u))
				s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -1, MessageID: 8, SenderName: "ok"}, u))

				h := &purgeRecorder{onKeyboard: func(kb Keyboard) error {
					if kb.ChatID == 1 {
						return errors.New("message is gone")
					}
					return nil
				}}
				stats, err := q.Purge(ctx, QueueItem{ID: res.ID, SanitizedURL: u.String()}, h)
				s.Require().Error(err, "handler errors are reported")
				s.Contains(err.Error(), "message is gone")
				s.Contains(err.Error(), "can't delete message")
				s.Equal(PurgeStats{Keyboards: 2, Sightings: 2, Cycles: 1}, stats)
				s.Len(h.keyboards, 2, "failed keyboard doesn't stop the others")
				s.Len(h.sightings, 2)

				count, err := q.Count(ctx)
				s.Require().NoError(err)
				s.Equal(0, count)
			})

			s.Run("repeats when a keyboard is added during drain", func() {
				u := mustURL(s.T(), "https://retry.example.com/")
				res, err := q.Enqueue(ctx, u, "")
				s.Require().NoError(err)
				s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 1, MessageID: 1}, res.ID))

				added := false
				h := &purgeRecorder{}
				h.onKeyboard = func(Keyboard) error {
					if added {
						return nil
					}
					added = true
					return q.KeyboardMade(ctx, Keyboard{ChatID: 1, MessageID: 2}, res.ID)
				}
				stats, err := q.Purge(ctx, QueueItem{ID: res.ID, SanitizedURL: u.String()}, h)
				s.Require().NoError(err)
				s.Equal(2, stats.Cycles)
				s.Equal(2, stats.Keyboards)

				count, err := q.Count(ctx)
				s.Require().NoError(err)
				s.Equal(0, count)
			})

			s.Run("abandoned when dependents keep coming", func() {
				u := mustURL(s.T(), "https://livelock.example.com/")
				res, err := q.Enqueue(ctx, u, "")
				s.Require().NoError(err)
				s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 1, MessageID: 1}, res.ID))

				next := 100
				h := &purgeRecorder{}
				h.onKeyboard = func(Keyboard) error {
					next++
					return q.KeyboardMade(ctx, Keyboard{ChatID: 1, MessageID: next}, res.ID)
				}
				stats, err := q.Purge(ctx, QueueItem{ID: res.ID, SanitizedURL: u.String()}, h)
				s.Require().Error(err)
				s.Contains(err.Error(), "abandoned")
				s.GreaterOrEqual(stats.Cycles, 1)

				count, err := q.Count(ctx)
				s.Require().NoError(err)
				s.Equal(1, count, "abandoned item stays queued")
			})
		})
	}
}

func (s *StorageTestSuite) TestReviewQueue_ResolveAndPurge() {
	ctx := context.Background()
	for _, dbt := range s.getTestDB() {
		db := dbt.DB
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db)
			urls, q := s.newStores(db)

			page := mustURL(s.T(), "https://site.example.com/page")
			deeper := mustURL(s.T(), "https://site.example.com/page/more?x=1")
			unrelated := mustURL(s.T(), "https://elsewhere.example.com/page")
			ids := map[string]int64{}
			for _, u := range []struct{ raw, name string }{{page.String(), "page"}, {deeper.String(), "deeper"}, {unrelated.String(), "unrelated"}} {
				res, err := q.Enqueue(ctx, mustURL(s.T(), u.raw), u.raw)
				s.Require().NoError(err)
				s.Require().Equal(Sent, res.Kind)
				ids[u.name] = res.ID
			}
			s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 7, MessageID: 70}, ids["page"]))
			s.Require().NoError(q.KeyboardMade(ctx, Keyboard{ChatID: 7, MessageID: 71}, ids["deeper"]))
			s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -5, MessageID: 500, SenderName: "x"}, deeper))

			h := &purgeRecorder{}
			res, err := q.ResolveAndPurge(ctx, Resolution{URL: page, OriginalURL: "https://site.example.com/Page",
				Designation: NotSpam, Reviewer: "alice"}, h)
			s.Require().NoError(err)
			s.Equal(Inserted, res.Upsert.Kind)
			s.Len(res.Purged, 2)
			s.Equal(PurgeStats{Keyboards: 2, Sightings: 1, Cycles: 2}, res.Stats)
			s.ElementsMatch([]Keyboard{{ChatID: 7, MessageID: 70}, {ChatID: 7, MessageID: 71}}, h.keyboards)

			items, err := q.List(ctx)
			s.Require().NoError(err)
			s.Require().Len(items, 1)
			s.Equal(unrelated.String(), items[0].SanitizedURL)

			e, err := urls.Lookup(ctx, page, true)
			s.Require().NoError(err)
			s.Require().NotNil(e)
			s.True(e.ManuallyReviewed)

			s.Run("exact manual not spam is not queued again", func() {
				res, err := q.Enqueue(ctx, page, "")
				s.Require().NoError(err)
				s.Equal(AlreadyInDatabase, res.Kind)
			})

			s.Run("deeper url is accepted fresh", func() {
				res, err := q.Enqueue(ctx, deeper, "")
				s.Require().NoError(err)
				s.Equal(Sent, res.Kind)
			})

			s.Run("no change still purges matching", func() {
				res, err := q.ResolveAndPurge(ctx, Resolution{URL: page, Designation: NotSpam, Reviewer: "bob"}, h)
				s.Require().NoError(err)
				s.Equal(NoChange, res.Upsert.Kind)
				s.Len(res.Purged, 1)
				s.Equal(deeper.String(), res.Purged[0].SanitizedURL)
			})

			s.Run("automatic resolution", func() {
				res, err := q.ResolveAndPurge(ctx, Resolution{URL: unrelated, Designation: Spam}, h)
				s.Require().NoError(err)
				s.Equal(Inserted, res.Upsert.Kind)
				s.Len(res.Purged, 1)
				e, err := urls.Lookup(ctx, unrelated, false)
				s.Require().NoError(err)
				s.False(e.ManuallyReviewed)
			})

			s.Run("automatic resolution refused over manual purges nothing", func() {
				tracked := mustURL(s.T(), "https://site.example.com/page?ref=1")
				qr, err := q.Enqueue(ctx, tracked, "")
				s.Require().NoError(err)
				s.Require().Equal(Sent, qr.Kind)
				s.Require().NoError(q.RecordSighting(ctx, Sighting{ChatID: -1, MessageID: 9, SenderName: "x"}, tracked))

				rec := &purgeRecorder{}
				res, err := q.ResolveAndPurge(ctx, Resolution{URL: page, Designation: Spam}, rec)
				s.Require().NoError(err)
				s.Equal(NoChange, res.Upsert.Kind)
				s.True(res.Upsert.Refused)
				s.Empty(res.Purged)
				s.Empty(rec.sightings, "messages are not touched")

				items, err := q.List(ctx)
				s.Require().NoError(err)
				s.Require().Len(items, 1)
				s.Equal(tracked.String(), items[0].SanitizedURL)

				e, err := urls.Lookup(ctx, page, false)
				s.Require().NoError(err)
				s.Require().NotNil(e)
				s.Equal(NotSpam, e.Designation)
				s.True(e.ManuallyReviewed)
			})
		})
	}
}
