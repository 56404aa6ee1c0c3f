package retriever_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/lcampanari/gamebook-api/internal/bookstore"
	bookstoremock "github.com/lcampanari/gamebook-api/internal/bookstore/mock"
	"github.com/lcampanari/gamebook-api/internal/cache"
	cachemock "github.com/lcampanari/gamebook-api/internal/cache/mock"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/retriever"
)

const testBookID = "warrior-of-blood"

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type RetrieverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	cache    *cachemock.MockCache
	store    *bookstoremock.MockStore
	embedder *fakeEmbedder
	ret      retriever.Retriever
	ctx      context.Context
}

func (s *RetrieverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.cache = cachemock.NewMockCache(s.ctrl)
	s.store = bookstoremock.NewMockStore(s.ctrl)
	s.embedder = &fakeEmbedder{vector: []float32{1, 0}}
	s.ctx = context.Background()

	var err error
	s.ret, err = retriever.New(&retriever.Config{
		Cache:    s.cache,
		Store:    s.store,
		Embedder: s.embedder,
	})
	s.Require().NoError(err)
}

func (s *RetrieverSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RetrieverSuite) section(number int) *entities.SectionContext {
	return &entities.SectionContext{BookID: testBookID, Number: number, Text: "texto"}
}

func (s *RetrieverSuite) TestCacheHitSkipsStore() {
	data, err := json.Marshal(s.section(5))
	s.Require().NoError(err)

	s.cache.EXPECT().Get(s.ctx, cache.Key(testBookID, 5)).Return(data, nil)

	section, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.Require().NoError(err)
	s.Equal(5, section.Number)
	s.Zero(s.embedder.calls)
}

func (s *RetrieverSuite) TestExactHitWritesThrough() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, &bookstore.GetSectionInput{
		BookID:        testBookID,
		SectionNumber: 5,
	}).Return(&bookstore.GetSectionOutput{Section: s.section(5)}, nil)
	s.cache.EXPECT().Set(s.ctx, cache.Key(testBookID, 5), gomock.Any()).Return(nil)

	section, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.Require().NoError(err)
	s.Equal(5, section.Number)
}

func (s *RetrieverSuite) TestMarkerTierAfterExactMiss() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(nil, errors.NotFound("not indexed"))
	s.store.EXPECT().SearchMarker(s.ctx, &bookstore.SearchMarkerInput{
		BookID:        testBookID,
		SectionNumber: 5,
	}).Return(&bookstore.SearchMarkerOutput{Section: s.section(5)}, nil)
	s.cache.EXPECT().Set(s.ctx, gomock.Any(), gomock.Any()).Return(nil)

	section, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.Require().NoError(err)
	s.Equal(5, section.Number)
	s.Zero(s.embedder.calls, "semantic tier must not run when marker scan succeeds")
}

func (s *RetrieverSuite) TestSemanticTierIsLastResort() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(nil, errors.NotFound("not indexed"))
	s.store.EXPECT().SearchMarker(s.ctx, gomock.Any()).Return(nil, errors.NotFound("no marker"))
	s.store.EXPECT().SearchSemantic(s.ctx, &bookstore.SearchSemanticInput{
		BookID:    testBookID,
		Embedding: []float32{1, 0},
	}).Return(&bookstore.SearchSemanticOutput{Section: s.section(4), Similarity: 0.91}, nil)
	s.cache.EXPECT().Set(s.ctx, gomock.Any(), gomock.Any()).Return(nil)

	section, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.Require().NoError(err)
	s.Equal(4, section.Number)
	s.Equal(1, s.embedder.calls)
}

func (s *RetrieverSuite) TestAllTiersMissReturnsNotFound() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(nil, errors.NotFound("not indexed"))
	s.store.EXPECT().SearchMarker(s.ctx, gomock.Any()).Return(nil, errors.NotFound("no marker"))
	s.store.EXPECT().SearchSemantic(s.ctx, gomock.Any()).Return(nil, errors.NotFound("no embeddings"))

	_, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.True(errors.IsNotFound(err))
}

func (s *RetrieverSuite) TestCacheWriteFailureDoesNotFailLookup() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(&bookstore.GetSectionOutput{Section: s.section(5)}, nil)
	s.cache.EXPECT().Set(s.ctx, gomock.Any(), gomock.Any()).Return(errors.Unavailable("redis down"))

	section, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.Require().NoError(err)
	s.Equal(5, section.Number)
}

func (s *RetrieverSuite) TestExactTierFailureDegradesToMarker() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(nil, errors.Unavailable("redis briefly unreachable"))
	s.store.EXPECT().SearchMarker(s.ctx, &bookstore.SearchMarkerInput{
		BookID:        testBookID,
		SectionNumber: 7,
	}).Return(&bookstore.SearchMarkerOutput{Section: s.section(7)}, nil)
	s.cache.EXPECT().Set(s.ctx, gomock.Any(), gomock.Any()).Return(nil)

	section, err := s.ret.GetSection(s.ctx, testBookID, 7)
	s.Require().NoError(err)
	s.Equal(7, section.Number)
	s.Zero(s.embedder.calls)
}

func (s *RetrieverSuite) TestMarkerTierFailureDegradesToSemantic() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(nil, errors.NotFound("not indexed"))
	s.store.EXPECT().SearchMarker(s.ctx, gomock.Any()).Return(nil, errors.Internal("scan cursor lost"))
	s.store.EXPECT().SearchSemantic(s.ctx, gomock.Any()).
		Return(&bookstore.SearchSemanticOutput{Section: s.section(5), Similarity: 0.88}, nil)
	s.cache.EXPECT().Set(s.ctx, gomock.Any(), gomock.Any()).Return(nil)

	section, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.Require().NoError(err)
	s.Equal(5, section.Number)
}

func (s *RetrieverSuite) TestAllTiersFailingSurfacesTierError() {
	s.cache.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().GetSection(s.ctx, gomock.Any()).Return(nil, errors.Unavailable("redis down"))
	s.store.EXPECT().SearchMarker(s.ctx, gomock.Any()).Return(nil, errors.Unavailable("redis down"))
	s.store.EXPECT().SearchSemantic(s.ctx, gomock.Any()).Return(nil, errors.Unavailable("redis down"))

	_, err := s.ret.GetSection(s.ctx, testBookID, 5)
	s.True(errors.IsUnavailable(err))
	s.False(errors.IsNotFound(err))
}

func TestRetrieverSuite(t *testing.T) {
	suite.Run(t, new(RetrieverSuite))
}
