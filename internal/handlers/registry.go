package handlers

// AppHandlers holds every handler the router registers.
type AppHandlers struct {
	HealthHandler       *HealthHandler
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	NotificationHandler *NotificationHandler
	PropertyHandler     *PropertyHandler
	TaskHandler         *TaskHandler
	RentRecordHandler   *RentRecordHandler
	TenantQueryHandler  *TenantQueryHandler
}
