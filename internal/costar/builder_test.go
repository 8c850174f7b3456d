package costar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/costar/mocks"
	"github.com/vmunix/marquee/internal/tmdb"
)

const subjectID = int64(6384)

func movie(id int64, title string, popularity float64) tmdb.MovieCredit {
	return tmdb.MovieCredit{MovieSummary: tmdb.MovieSummary{ID: id, Title: title, Popularity: popularity}}
}

func cast(movieID int64, members ...tmdb.CastMember) *tmdb.Credits {
	for i := range members {
		members[i].Order = i
	}
	return &tmdb.Credits{ID: movieID, Cast: members}
}

var (
	subject  = tmdb.CastMember{ID: subjectID, Name: "Keanu Reeves"}
	carrie   = tmdb.CastMember{ID: 530, Name: "Carrie-Anne Moss", ProfilePath: "/carrie.jpg"}
	hugo     = tmdb.CastMember{ID: 1331, Name: "Hugo Weaving"}
	laurence = tmdb.CastMember{ID: 2975, Name: "Laurence Fishburne"}
)

func setup(t *testing.T, credits []tmdb.MovieCredit) *mocks.MockFetcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().GetPerson(gomock.Any(), subjectID).
		Return(&tmdb.Person{ID: subjectID, Name: "Keanu Reeves", ProfilePath: "/keanu.jpg"}, nil)
	f.EXPECT().GetPersonMovieCredits(gomock.Any(), subjectID).
		Return(&tmdb.PersonCredits{ID: subjectID, Cast: credits}, nil)
	return f
}

func TestBuild_MinSharedThreshold(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{
		movie(1, "Alpha", 30),
		movie(2, "Beta", 20),
		movie(3, "Gamma", 10),
	})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(1)).Return(cast(1, subject, carrie), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(cast(2, carrie, subject), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(3)).Return(cast(3, subject, hugo), nil)

	g, err := NewBuilder(f, nil, DefaultParams(), nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	require.Len(t, g.CoStars, 1)
	cs := g.CoStars[0]
	assert.Equal(t, carrie.ID, cs.ID)
	assert.Equal(t, "Carrie-Anne Moss", cs.Name)
	assert.Equal(t, "/carrie.jpg", cs.ProfilePath)
	assert.Equal(t, 2, cs.SharedMovieCount)
	assert.Equal(t, []string{"Alpha", "Beta"}, cs.SharedMovieTitles)
	assert.Equal(t, []MovieRef{{ID: 1, Title: "Alpha"}, {ID: 2, Title: "Beta"}}, cs.Movies)
}

func TestBuild_GraphShape(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{movie(1, "Alpha", 30), movie(2, "Beta", 20)})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(1)).Return(cast(1, subject, carrie), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(cast(2, subject, carrie), nil)

	g, err := NewBuilder(f, nil, DefaultParams(), nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	assert.Equal(t, Node{ID: "6384", Label: "Keanu Reeves", Type: NodeActor, ProfilePath: "/keanu.jpg"}, g.Subject)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "530", g.Nodes[1].ID)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, Edge{
		ID:     "edge_6384_530",
		Source: "6384",
		Target: "530",
		Label:  "2 shared: Alpha, Beta",
		Weight: 2,
	}, g.Edges[0])
	assert.False(t, g.Empty())
}

func TestBuild_RankingAndLimit(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{
		movie(1, "A", 5), movie(2, "B", 4), movie(3, "C", 3),
	})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(1)).Return(cast(1, subject, laurence, carrie, hugo), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(cast(2, subject, laurence, carrie, hugo), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(3)).Return(cast(3, subject, hugo), nil)

	p := DefaultParams()
	p.Limit = 2
	g, err := NewBuilder(f, nil, p, nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	require.Len(t, g.CoStars, 2)
	assert.Equal(t, hugo.ID, g.CoStars[0].ID, "most shared first")
	assert.Equal(t, carrie.ID, g.CoStars[1].ID, "ties broken by lower id")
}

func TestBuild_CastDepth(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{movie(1, "A", 2), movie(2, "B", 1)})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(1)).Return(cast(1, subject, carrie, hugo), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(cast(2, carrie, subject, hugo), nil)

	p := DefaultParams()
	p.CastDepth = 2
	g, err := NewBuilder(f, nil, p, nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	require.Len(t, g.CoStars, 1, "hugo is billed below the cast depth in both movies")
	assert.Equal(t, carrie.ID, g.CoStars[0].ID)
}

func TestBuild_SampleSize(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{
		movie(1, "Low", 1),
		movie(2, "High", 9),
		movie(3, "Mid", 5),
		movie(2, "High", 9),
	})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(cast(2, subject, carrie), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(3)).Return(cast(3, subject, carrie), nil)

	p := DefaultParams()
	p.SampleSize = 2
	g, err := NewBuilder(f, nil, p, nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	require.Len(t, g.CoStars, 1)
	assert.Equal(t, []string{"High", "Mid"}, g.CoStars[0].SharedMovieTitles)
}

func TestBuild_FallbackName(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{movie(1, "A", 2), movie(2, "B", 1)})
	nameless := tmdb.CastMember{ID: 777}
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(1)).Return(cast(1, subject, nameless), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(cast(2, subject, nameless), nil)

	g, err := NewBuilder(f, nil, DefaultParams(), nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	require.Len(t, g.CoStars, 1)
	assert.Equal(t, "Unknown Actor (777)", g.CoStars[0].Name)
}

func TestBuild_FetchFailureAborts(t *testing.T) {
	f := setup(t, []tmdb.MovieCredit{movie(1, "A", 2), movie(2, "B", 1)})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(1)).Return(cast(1, subject, carrie), nil).AnyTimes()
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(2)).Return(nil, errors.New("connection reset")).AnyTimes()

	g, err := NewBuilder(f, nil, DefaultParams(), nil).Build(context.Background(), subjectID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Nil(t, g)
}

func TestBuild_PersonFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().GetPerson(gomock.Any(), subjectID).Return(nil, tmdb.ErrNotFound).AnyTimes()
	f.EXPECT().GetPersonMovieCredits(gomock.Any(), subjectID).Return(&tmdb.PersonCredits{}, nil).AnyTimes()

	_, err := NewBuilder(f, nil, DefaultParams(), nil).Build(context.Background(), subjectID)
	assert.ErrorIs(t, err, tmdb.ErrNotFound)
}

func TestBuild_NoCredits(t *testing.T) {
	f := setup(t, nil)

	_, err := NewBuilder(f, nil, DefaultParams(), nil).Build(context.Background(), subjectID)
	assert.ErrorIs(t, err, ErrNoCredits)
}

func TestBuild_CollectionAnnotations(t *testing.T) {
	idx := collections.NewIndex(collections.Dataset{
		"2344": {ID: 2344, Name: "The Matrix Collection", Parts: []tmdb.MovieSummary{{ID: 603}, {ID: 604}}},
	})
	f := setup(t, []tmdb.MovieCredit{
		movie(603, "The Matrix", 9), movie(604, "The Matrix Reloaded", 8), movie(9, "Other", 1),
	})
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(603)).Return(cast(603, subject, laurence), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(604)).Return(cast(604, subject, laurence), nil)
	f.EXPECT().GetMovieCredits(gomock.Any(), int64(9)).Return(cast(9, subject, laurence), nil)

	g, err := NewBuilder(f, idx, DefaultParams(), nil).Build(context.Background(), subjectID)
	require.NoError(t, err)

	require.Len(t, g.CoStars, 1)
	assert.Equal(t, 3, g.CoStars[0].SharedMovieCount)
	assert.Equal(t, []string{"The Matrix Collection"}, g.CoStars[0].Collections)
}

func TestParams_Layout(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		depth int
	}{
		{"mobile", 5, 3},
		{"tablet", 6, 4},
		{"Desktop", 8, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DefaultParams().Layout(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.depth, p.CastDepth)
			assert.Equal(t, 50, p.SampleSize)
			assert.Equal(t, 2, p.MinShared)
		})
	}

	_, err := DefaultParams().Layout("watch")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestGraph_Empty(t *testing.T) {
	var g *Graph
	assert.True(t, g.Empty())
	assert.True(t, (&Graph{}).Empty())
}
