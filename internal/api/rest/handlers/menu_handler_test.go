package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/repository"
)

const itemID = "65f1c0ffee0000000000aaaa"

func TestMenuHandler_ListByCategory(t *testing.T) {
	cases := map[string]struct {
		category       string
		setupMock      func(*mockMenuStore)
		expectedStatus int
		expectedBody   string
	}{
		"should list available items of category": {
			category: "Main%20Courses",
			setupMock: func(m *mockMenuStore) {
				m.On("ListByCategory", mock.Anything, domain.CategoryMainCourses).Return([]domain.MenuItem(nil), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		"should reject unknown category": {
			category:       "Brunch",
			setupMock:      func(*mockMenuStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid category, must be one of Appetizers, Main Courses, Desserts, Drinks"}`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := new(mockMenuStore)
			tc.setupMock(store)

			rr := httptest.NewRecorder()
			NewMenuHandler(store, discardLogger()).ListByCategory(
				rr,
				newRequest(http.MethodGet, "/api/menu/category/x", "", map[string]string{"category": tc.category}, ""),
			)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			store.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_GetItem(t *testing.T) {
	cases := map[string]struct {
		id             string
		err            error
		expectedStatus int
	}{
		"should return bad request for malformed id": {
			id:             "nope",
			err:            &repository.InvalidIDError{Resource: "menu item", Value: "nope"},
			expectedStatus: http.StatusBadRequest,
		},
		"should return not found for missing item": {
			id:             itemID,
			err:            &repository.NotFoundError{Resource: "menu item", Key: "id", Value: itemID},
			expectedStatus: http.StatusNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := new(mockMenuStore)
			store.On("GetMenuItemByID", mock.Anything, tc.id).Return(nil, tc.err)

			rr := httptest.NewRecorder()
			NewMenuHandler(store, discardLogger()).GetItem(
				rr,
				newRequest(http.MethodGet, "/api/menu/item/"+tc.id, "", map[string]string{"id": tc.id}, ""),
			)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestMenuHandler_CreateItem(t *testing.T) {
	cases := map[string]struct {
		body           string
		expectStored   func(*testing.T, *domain.MenuItem)
		expectedStatus int
		expectedError  string
	}{
		"should apply defaults": {
			body:           `{"name":"Burger","description":"Beef","price":12.99,"category":"Main Courses"}`,
			expectedStatus: http.StatusCreated,
			expectStored: func(t *testing.T, item *domain.MenuItem) {
				assert.True(t, item.Available)
				assert.False(t, item.Popular)
				assert.Equal(t, 0, item.SpicyLevel)
				assert.True(t, decimal.RequireFromString("12.99").Equal(item.Price))
				assert.Equal(t, []string{}, item.Ingredients)
			},
		},
		"should keep explicit availability": {
			body:           `{"name":"Soda","description":"Fizzy","price":"2.50","category":"Drinks","available":false,"spicyLevel":0}`,
			expectedStatus: http.StatusCreated,
			expectStored: func(t *testing.T, item *domain.MenuItem) {
				assert.False(t, item.Available)
			},
		},
		"should reject non-positive price": {
			body:           `{"name":"Burger","description":"Beef","price":0,"category":"Main Courses"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price must be greater than 0",
		},
		"should reject price that rounds to zero": {
			body:           `{"name":"Burger","description":"Beef","price":0.004,"category":"Main Courses"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price must be greater than 0",
		},
		"should round price to cents": {
			body:           `{"name":"Fries","description":"Salted","price":3.456,"category":"Appetizers"}`,
			expectedStatus: http.StatusCreated,
			expectStored: func(t *testing.T, item *domain.MenuItem) {
				assert.True(t, decimal.RequireFromString("3.46").Equal(item.Price))
			},
		},
		"should reject unknown category": {
			body:           `{"name":"Burger","description":"Beef","price":5,"category":"Brunch"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "category must be one of Appetizers, Main Courses, Desserts, Drinks",
		},
		"should reject spicy level above five": {
			body:           `{"name":"Wings","description":"Hot","price":5,"category":"Appetizers","spicyLevel":6}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "spicyLevel must be at most 5",
		},
		"should reject missing name": {
			body:           `{"description":"Beef","price":5,"category":"Main Courses"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := new(mockMenuStore)
			var stored *domain.MenuItem
			store.On("CreateMenuItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				stored = args.Get(1).(*domain.MenuItem)
				stored.ID = itemID
			}).Return(nil).Maybe()

			rr := httptest.NewRecorder()
			NewMenuHandler(store, discardLogger()).
				CreateItem(rr, newRequest(http.MethodPost, "/api/menu", tc.body, nil, "admin"))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedError != "" {
				assert.Contains(t, rr.Body.String(), tc.expectedError)
				store.AssertNotCalled(t, "CreateMenuItem", mock.Anything, mock.Anything)
				return
			}

			require.NotNil(t, stored)
			tc.expectStored(t, stored)
			assert.Contains(t, rr.Body.String(), `"_id":"`+itemID+`"`)
		})
	}
}

func TestMenuHandler_UpdateItem(t *testing.T) {
	cases := map[string]struct {
		body           string
		expectedStatus int
		expectedError  string
	}{
		"should apply provided fields only": {
			body:           `{"price":9.5,"available":false}`,
			expectedStatus: http.StatusOK,
		},
		"should reject price that rounds to zero": {
			body:           `{"price":0.004}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price must be greater than 0",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := new(mockMenuStore)
			store.On("UpdateMenuItem", mock.Anything, itemID, mock.MatchedBy(func(u *domain.MenuItemUpdate) bool {
				return u.Price != nil && u.Price.Equal(decimal.RequireFromString("9.5")) && u.Name == nil && u.Available != nil && !*u.Available
			})).Return(&domain.MenuItem{ID: itemID, Name: "Burger"}, nil).Maybe()

			rr := httptest.NewRecorder()
			NewMenuHandler(store, discardLogger()).UpdateItem(
				rr,
				newRequest(http.MethodPut, "/api/menu/item/"+itemID, tc.body, map[string]string{"id": itemID}, "admin"),
			)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedError != "" {
				assert.Contains(t, rr.Body.String(), tc.expectedError)
				store.AssertNotCalled(t, "UpdateMenuItem", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			store.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_DeleteItem(t *testing.T) {
	cases := map[string]struct {
		err            error
		expectedStatus int
		expectedBody   string
	}{
		"should confirm deletion": {
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Menu item deleted successfully"}`,
		},
		"should return not found for missing item": {
			err:            &repository.NotFoundError{Resource: "menu item", Key: "id", Value: itemID},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"menu item not found"}`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := new(mockMenuStore)
			store.On("DeleteMenuItem", mock.Anything, itemID).Return(tc.err)

			rr := httptest.NewRecorder()
			NewMenuHandler(store, discardLogger()).DeleteItem(
				rr,
				newRequest(http.MethodDelete, "/api/menu/item/"+itemID, "", map[string]string{"id": itemID}, "admin"),
			)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
