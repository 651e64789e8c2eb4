package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kakitori/internal/domain"
	"kakitori/internal/service"
	"kakitori/internal/testutil"
)

type apiFixture struct {
	words      *testutil.MockWordRepository
	sessions   *testutil.MockSessionRepository
	source     *testutil.MockDictionarySource
	translator *testutil.MockTranslator
	speech     *testutil.MockSpeechProvider
	router     *gin.Engine
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		words:      new(testutil.MockWordRepository),
		sessions:   new(testutil.MockSessionRepository),
		source:     new(testutil.MockDictionarySource),
		translator: new(testutil.MockTranslator),
		speech:     new(testutil.MockSpeechProvider),
	}
	f.translator.On("Configured").Return(false).Maybe()

	logger := testutil.NewTestLogger()
	lookup := service.NewLookupService(f.source, f.translator, service.LookupOptions{Limit: 10, ExtendedLimit: 15}, logger)
	synthesis := service.NewSynthesisService(f.speech, testutil.Voices, logger)
	wordService := service.NewWordService(f.words, lookup, synthesis, logger)
	sessionService := service.NewSessionService(f.sessions, 5, logger)
	statusService := service.NewStatusService(f.words, lookup, synthesis, logger)

	f.router = NewRouter(RouterConfig{
		Words:    NewWordHandler(wordService, logger),
		Practice: NewPracticeHandler(sessionService, logger),
		Status:   NewStatusHandler(statusService, logger),
		Logger:   logger,
	})
	return f
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrNoWords, http.StatusNotFound},
		{domain.ErrNoMeanings, http.StatusNotFound},
		{domain.ErrDuplicateWord, http.StatusConflict},
		{domain.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{domain.ErrInvalidMeaningIndex, http.StatusBadRequest},
		{domain.ErrInvalidAudioIndex, http.StatusBadRequest},
		{domain.ErrEmptyInput, http.StatusBadRequest},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, errorStatus(tt.err))
		})
	}
}

func TestHealthAndStatus(t *testing.T) {
	f := newAPIFixture()
	f.words.On("Count", mock.Anything).Return(12, nil)
	f.speech.On("Configured").Return(true)

	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = f.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["azure_speech"])
	assert.Equal(t, false, body["azure_translator"])
	assert.Equal(t, float64(12), body["words"])
}

func TestListWords(t *testing.T) {
	f := newAPIFixture()
	words := []domain.Word{*testutil.NewTestWord(3, "たべる", "食べる", "to eat/comer")}
	f.words.On("List", mock.Anything, 10, 10, "eat").Return(words, 11, nil)

	rec := f.do(http.MethodGet, "/api/words?page=2&search=eat", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(11), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(10), body["per_page"])
	assert.Equal(t, float64(2), body["pages"])
	list := body["words"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "食べる", first["kanji"])
	assert.Equal(t, true, first["has_audio3"])
}

func TestWordEndpoints_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		setup  func(f *apiFixture)
		status int
	}{
		{
			name:   "get unknown word",
			method: http.MethodGet,
			path:   "/api/words/99",
			setup:  func(f *apiFixture) { f.words.On("Get", mock.Anything, 99).Return(nil, domain.ErrNotFound) },
			status: http.StatusNotFound,
		},
		{
			name:   "non numeric id",
			method: http.MethodGet,
			path:   "/api/words/abc",
			setup:  func(f *apiFixture) {},
			status: http.StatusBadRequest,
		},
		{
			name:   "update unknown word",
			method: http.MethodPut,
			path:   "/api/words/99",
			body:   `{"kanji":"食","level":"N5","meaning":"food"}`,
			setup: func(f *apiFixture) {
				f.words.On("Update", mock.Anything, 99, "食", "N5", "food").Return(domain.ErrNotFound)
			},
			status: http.StatusNotFound,
		},
		{
			name:   "delete fails in store",
			method: http.MethodDelete,
			path:   "/api/words/1",
			setup:  func(f *apiFixture) { f.words.On("Delete", mock.Anything, 1).Return(errors.New("tx aborted")) },
			status: http.StatusInternalServerError,
		},
		{
			name:   "audio out of range",
			method: http.MethodGet,
			path:   "/api/audio/1/4",
			setup:  func(f *apiFixture) {},
			status: http.StatusBadRequest,
		},
		{
			name:   "audio missing",
			method: http.MethodGet,
			path:   "/api/audio/1/2",
			setup:  func(f *apiFixture) { f.words.On("GetAudio", mock.Anything, 1, 2).Return([]byte(nil), nil) },
			status: http.StatusNotFound,
		},
		{
			name:   "save without meaning index",
			method: http.MethodPost,
			path:   "/api/save-word",
			body:   `{"word":"たべる"}`,
			setup:  func(f *apiFixture) {},
			status: http.StatusBadRequest,
		},
		{
			name:   "save duplicate",
			method: http.MethodPost,
			path:   "/api/save-word",
			body:   `{"word":"たべる","meaning_index":0}`,
			setup:  func(f *apiFixture) { f.words.On("Exists", mock.Anything, "たべる").Return(true, nil) },
			status: http.StatusConflict,
		},
		{
			name:   "regenerate with no voice",
			method: http.MethodPost,
			path:   "/api/words/1/regenerate-audio",
			body:   `{"use_kanji":false}`,
			setup: func(f *apiFixture) {
				f.words.On("Get", mock.Anything, 1).Return(testutil.NewTestWord(1, "たべる", "食べる", "to eat"), nil)
				f.speech.On("Synthesize", mock.Anything, mock.Anything, "たべる").Return(nil, errors.New("401"))
			},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture()
			tt.setup(f)

			rec := f.do(tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decode(t, rec), "error")
		})
	}
}

func TestAudio(t *testing.T) {
	f := newAPIFixture()
	f.words.On("GetAudio", mock.Anything, 5, 1).Return([]byte("RIFF...."), nil)

	rec := f.do(http.MethodGet, "/api/audio/5/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF....", rec.Body.String())
}

func TestCheckWord(t *testing.T) {
	f := newAPIFixture()
	f.words.On("Exists", mock.Anything, "たべる").Return(true, nil)

	rec := f.do(http.MethodPost, "/api/check-word", `{"word":"たべる"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["exists"])
}

func TestGetMeanings(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int
		result  []domain.Candidate
		err     error
		count   int
		hasMore bool
		outcome string
	}{
		{
			name:    "found",
			body:    `{"word":"たべる"}`,
			limit:   10,
			result:  []domain.Candidate{testutil.NewTestCandidate(0, "たべる", "食べる", "JLPT N5", "to eat")},
			count:   1,
			outcome: "found",
		},
		{
			name:    "load more",
			body:    `{"word":"たべる","load_more":true}`,
			limit:   15,
			result:  []domain.Candidate{},
			outcome: "empty",
		},
		{
			name:    "provider failure is not an error",
			body:    `{"word":"たべる"}`,
			limit:   10,
			err:     errors.New("timeout"),
			outcome: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture()
			if tt.err != nil {
				f.source.On("Search", mock.Anything, "たべる", tt.limit).Return(nil, tt.err)
			} else {
				f.source.On("Search", mock.Anything, "たべる", tt.limit).Return(tt.result, nil)
			}

			rec := f.do(http.MethodPost, "/api/get-meanings", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Len(t, body["meanings"], tt.count)
			assert.Equal(t, tt.hasMore, body["has_more"])
			assert.Equal(t, tt.outcome, body["outcome"])
		})
	}
}

func TestSaveWord(t *testing.T) {
	f := newAPIFixture()
	f.words.On("Exists", mock.Anything, "たべる").Return(false, nil)
	f.source.On("Search", mock.Anything, "たべる", 15).Return([]domain.Candidate{
		testutil.NewTestCandidate(0, "たべる", "食べる", "JLPT N5", "to eat"),
	}, nil)
	for _, voice := range testutil.Voices {
		f.speech.On("Synthesize", mock.Anything, voice, "食べる").Return([]byte("wav"), nil)
	}
	f.words.On("Insert", mock.Anything, mock.MatchedBy(func(w domain.Word) bool {
		return w.Meaning == "comer" && w.Level == "N5"
	})).Return(21, nil)

	rec := f.do(http.MethodPost, "/api/save-word", `{"word":"たべる","meaning_index":0,"use_kanji":true,"custom_translation":"comer"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(21), body["word"].(map[string]any)["id"])
}

func TestStartPractice(t *testing.T) {
	words := []domain.PracticeWord{testutil.NewTestPracticeWord(4, 1, "たべる", "to eat")}

	t.Run("fresh session with default count", func(t *testing.T) {
		f := newAPIFixture()
		f.sessions.On("CreateWithRandomWords", mock.Anything, 5).Return(int64(4), words, nil)

		rec := f.do(http.MethodPost, "/api/start-practice", `{}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, float64(4), body["session_id"])
		list := body["words"].([]any)
		require.Len(t, list, 1)
		assert.Equal(t, float64(1), list[0].(map[string]any)["id"])
	})

	t.Run("empty vocabulary", func(t *testing.T) {
		f := newAPIFixture()
		f.sessions.On("CreateWithRandomWords", mock.Anything, 3).Return(int64(0), nil, domain.ErrNoWords)

		rec := f.do(http.MethodPost, "/api/start-practice", `{"word_count":3}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("errors only replay", func(t *testing.T) {
		f := newAPIFixture()
		f.sessions.On("Exists", mock.Anything, int64(4)).Return(true, nil)
		f.sessions.On("Words", mock.Anything, int64(4), true).Return(words, nil)
		f.sessions.On("ClearAttempts", mock.Anything, int64(4)).Return(nil)

		rec := f.do(http.MethodPost, "/api/start-practice", `{"session_id":4,"only_errors":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		f.sessions.AssertExpectations(t)
	})

	t.Run("chunked replay body", func(t *testing.T) {
		f := newAPIFixture()
		f.sessions.On("Exists", mock.Anything, int64(4)).Return(true, nil)
		f.sessions.On("Words", mock.Anything, int64(4), true).Return(words, nil)
		f.sessions.On("ClearAttempts", mock.Anything, int64(4)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/start-practice", strings.NewReader(`{"session_id":4,"only_errors":true}`))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		f.sessions.AssertExpectations(t)
		f.sessions.AssertNotCalled(t, "CreateWithRandomWords", mock.Anything, mock.Anything)
	})

	t.Run("no body starts a fresh session", func(t *testing.T) {
		f := newAPIFixture()
		f.sessions.On("CreateWithRandomWords", mock.Anything, 5).Return(int64(4), words, nil)

		rec := f.do(http.MethodPost, "/api/start-practice", "")

		require.Equal(t, http.StatusOK, rec.Code)
		f.sessions.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newAPIFixture()

		rec := f.do(http.MethodPost, "/api/start-practice", `{"session_id":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitAttemptAndScore(t *testing.T) {
	f := newAPIFixture()
	f.sessions.On("InsertAttempt", mock.Anything, domain.Attempt{SessionID: 4, WordID: 1, WritingCorrect: true, MeaningCorrect: true}).Return(nil)
	f.sessions.On("Exists", mock.Anything, int64(4)).Return(true, nil)
	f.sessions.On("Counts", mock.Anything, int64(4)).Return(5, 5, 3, nil)
	f.sessions.On("Exists", mock.Anything, int64(8)).Return(false, nil)

	rec := f.do(http.MethodPost, "/api/submit-attempt", `{"session_id":4,"word_id":1,"writing_correct":true,"meaning_correct":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = f.do(http.MethodPost, "/api/submit-attempt", `{"word_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/session-score/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6.0, decode(t, rec)["score"])

	rec = f.do(http.MethodGet, "/api/session-score/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newAPIFixture()
	rec := f.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
