// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package table

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/shaledb/shale/filter"
	"github.com/shaledb/shale/opt"
	"github.com/shaledb/shale/testutil"
)

var _ = testutil.Defer(func() {
	Describe("Table", func() {
		Describe("approximate offset test", func() {
			var (
				buf = &bytes.Buffer{}
				o   = &opt.Options{
					BlockSize:   1024,
					Compression: opt.NoCompression,
				}
			)

			// Building the table.
			tw := NewWriter(buf, o)
			tw.Append([]byte("k01"), []byte("hello"))
			tw.Append([]byte("k02"), []byte("hello2"))
			tw.Append([]byte("k03"), bytes.Repeat([]byte{'x'}, 10000))
			tw.Append([]byte("k04"), bytes.Repeat([]byte{'x'}, 200000))
			tw.Append([]byte("k05"), bytes.Repeat([]byte{'x'}, 300000))
			tw.Append([]byte("k06"), []byte("hello3"))
			tw.Append([]byte("k07"), bytes.Repeat([]byte{'x'}, 100000))
			err := tw.Close()

			It("Should be able to approximate offset of a key correctly", func() {
				Expect(err).ShouldNot(HaveOccurred())

				tr, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()), o)
				Expect(err).ShouldNot(HaveOccurred())
				CheckOffset := func(key string, expect, threshold int) {
					offset, err := tr.OffsetOf([]byte(key))
					Expect(err).ShouldNot(HaveOccurred())
					Expect(offset).Should(BeNumerically("~", expect, threshold), "Offset of key %q", key)
				}

				CheckOffset("k0", 0, 0)
				CheckOffset("k01a", 0, 0)
				CheckOffset("k02", 0, 0)
				CheckOffset("k03", 0, 0)
				CheckOffset("k04", 10000, 1000)
				CheckOffset("k04a", 210000, 1000)
				CheckOffset("k05", 210000, 1000)
				CheckOffset("k06", 510000, 1000)
				CheckOffset("k07", 510000, 1000)
				CheckOffset("xyz", 610000, 2000)
			})
		})

		Describe("read test", func() {
			Build := func(o *opt.Options) func(kv testutil.KeyValue) testutil.DB {
				return func(kv testutil.KeyValue) testutil.DB {
					// Building the table.
					buf := &bytes.Buffer{}
					tw := NewWriter(buf, o)
					kv.Iterate(func(i int, key, value []byte) {
						tw.Append(key, value)
					})
					if err := tw.Close(); err != nil {
						panic(err)
					}

					// Opening the table.
					tr, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()), o)
					if err != nil {
						panic(err)
					}
					return tr
				}
			}

			Describe("with default options", func() {
				testutil.AllKeyValueTesting(nil, Build(nil))
			})

			Describe("with small blocks without compression", func() {
				testutil.AllKeyValueTesting(nil, Build(&opt.Options{
					BlockSize:            512,
					BlockRestartInterval: 3,
					Compression:          opt.NoCompression,
				}))
			})

			Describe("with bloom filter", func() {
				testutil.AllKeyValueTesting(nil, Build(&opt.Options{
					BlockSize: 512,
					Filter:    filter.NewBloomFilter(10),
				}))
			})

			Describe("with metro filter and no block cache", func() {
				testutil.AllKeyValueTesting(nil, Build(&opt.Options{
					Filter:            filter.NewMetroBloom(10),
					DisableBlockCache: true,
				}))
			})

			Describe("with 120 keys and restart interval 1", func() {
				kv := testutil.KeyValue_Generate(nil, 120, 1, 50, 10, 120)
				db := Build(&opt.Options{
					BlockSize:            512,
					BlockRestartInterval: 1,
					Filter:               filter.NewBloomFilter(10),
				})(*kv)
				testutil.KeyValueTesting(nil, db, *kv)
			})

			Describe("with one key per block", func() {
				kv := testutil.KeyValue_Generate(nil, 9, 1, 10, 512, 512)
				db := Build(&opt.Options{
					BlockSize:   512,
					Compression: opt.NoCompression,
				})(*kv)

				It("Should have one data block per key", func() {
					r := db.(*Reader)
					Expect(r.indexBlock.restartsLen).Should(Equal(kv.Len()))
				})

				testutil.KeyValueTesting(nil, db, *kv)
			})
		})
	})
})
