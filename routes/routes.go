package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shekar007/greenscore2/handlers"
	"github.com/shekar007/greenscore2/middleware"
	"github.com/shekar007/greenscore2/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.Profile).Methods("GET")

	// Projects
	api.HandleFunc("/projects", handlers.CreateProject).Methods("POST")
	api.HandleFunc("/projects", handlers.ListProjects).Methods("GET")

	// Materials and marketplace
	api.HandleFunc("/materials", handlers.CreateMaterial).Methods("POST")
	api.HandleFunc("/materials", handlers.ListSellerMaterials).Methods("GET")
	api.HandleFunc("/materials/import", handlers.ImportMaterials).Methods("POST")
	api.HandleFunc("/materials/import/logs", handlers.ListUploadLogs).Methods("GET")
	api.HandleFunc("/materials/{materialId}", handlers.GetMaterial).Methods("GET")
	api.HandleFunc("/materials/{materialId}", handlers.DeleteMaterial).Methods("DELETE")
	api.HandleFunc("/materials/{materialId}/listing-type", handlers.UpdateListingType).Methods("PUT")
	api.HandleFunc("/marketplace", handlers.BrowseMarketplace).Methods("GET")

	// Edit locks
	api.HandleFunc("/materials/{materialId}/lock", handlers.LockMaterial).Methods("POST")
	api.HandleFunc("/materials/{materialId}/lock", handlers.UnlockMaterial).Methods("DELETE")
	api.HandleFunc("/materials/{materialId}/lock", handlers.MaterialLockStatus).Methods("GET")
	api.HandleFunc("/materials/{materialId}/edit", handlers.EditMaterialWithLock).Methods("PUT")

	// Order requests
	api.HandleFunc("/order-requests", handlers.CreateOrderRequest).Methods("POST")
	api.HandleFunc("/order-requests/seller", handlers.ListSellerOrderRequests).Methods("GET")
	api.HandleFunc("/order-requests/buyer", handlers.ListBuyerOrderRequests).Methods("GET")
	api.HandleFunc("/order-requests/bulk-approve", handlers.BulkApproveOrderRequests).Methods("POST")
	api.HandleFunc("/order-requests/{requestId}/approve", handlers.ApproveOrderRequest).Methods("POST")
	api.HandleFunc("/order-requests/{requestId}/decline", handlers.DeclineOrderRequest).Methods("POST")

	// Orders
	api.HandleFunc("/orders", handlers.ListOrders).Methods("GET")
	api.HandleFunc("/orders/{orderId}", handlers.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{orderId}/status", handlers.UpdateOrderStatus).Methods("PUT")

	// Internal transfers
	api.HandleFunc("/transfers", handlers.CreateInternalTransfer).Methods("POST")
	api.HandleFunc("/transfers", handlers.ListInternalTransfers).Methods("GET")

	// Notifications
	api.HandleFunc("/notifications", handlers.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/read-all", handlers.MarkAllNotificationsRead).Methods("PUT")
	api.HandleFunc("/notifications/{notificationId}/read", handlers.MarkNotificationRead).Methods("PUT")

	// Transaction history
	api.HandleFunc("/history", handlers.ListTransactionHistory).Methods("GET")
	api.HandleFunc("/history/export", handlers.ExportTransactionHistory).Methods("GET")

	// File uploads
	api.HandleFunc("/upload", handlers.UploadPhoto).Methods("POST")

	// =====================================================
	// Admin Routes (require admin user type)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler {
		return middleware.RequireUserType([]string{string(models.UserTypeAdmin)}, next)
	})
	admin.HandleFunc("/users", handlers.AdminListUsers).Methods("GET")
	admin.HandleFunc("/users/{userId}/verify", handlers.AdminVerifyUser).Methods("PUT")
	admin.HandleFunc("/materials", handlers.AdminListMaterials).Methods("GET")
	admin.HandleFunc("/materials/{materialId}", handlers.AdminDeleteMaterial).Methods("DELETE")
	admin.HandleFunc("/order-requests", handlers.AdminListOrderRequests).Methods("GET")
	admin.HandleFunc("/orders", handlers.AdminListOrders).Methods("GET")

	return r
}
