package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/subastando/auction-api/internal/auction/application"
	"github.com/subastando/auction-api/internal/auction/domain"
	"github.com/subastando/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Handler exposes the auction module over HTTP.
type Handler struct {
	svc   application.AuctionService
	admin *AdminAuth
}

func NewHandler(svc application.AuctionService, admin *AdminAuth) *Handler {
	return &Handler{svc: svc, admin: admin}
}

// Register mounts all routes on the fiber app. Mutating listing and category
// routes sit behind the admin session middleware; bidding and reads are open
// (bidder identity is a request field, identity management being external).
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/auctions", h.listActiveAuctions)
	api.Get("/auctions/:id", h.getAuction)
	api.Get("/auctions/:id/bids", h.getBidHistory)
	api.Post("/auctions/:id/bids", h.placeBid)
	api.Post("/buy-now", h.buyNow)

	api.Get("/users/:id/auctions", h.listSellerAuctions)
	api.Get("/users/:id/bids", h.listBidderBids)

	api.Get("/categories", h.listCategories)

	api.Get("/profiles/:id", h.getProfile)
	api.Put("/profiles/:id", h.updateProfile)

	api.Post("/admin/login", h.admin.Login)
	api.Post("/admin/logout", h.admin.Logout)

	requireAdmin := h.admin.Middleware()
	api.Post("/auctions", requireAdmin, h.createAuction)
	api.Put("/auctions/:id", requireAdmin, h.editAuction)
	api.Delete("/auctions/:id", requireAdmin, h.deleteAuction)
	api.Post("/auctions/:id/finalize", requireAdmin, h.finalizeAuction)
	api.Post("/categories", requireAdmin, h.createCategory)
	api.Delete("/categories/:id", requireAdmin, h.deleteCategory)
}

func (h *Handler) placeBid(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}

	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	bidderID, err := uuid.Parse(req.BidderID)
	if err != nil {
		return badRequest(c, "invalid bidder id")
	}

	res, err := h.svc.PlaceBid(c.Context(), application.PlaceBidInput{
		AuctionID:  auctionID,
		BidderID:   bidderID,
		AmountText: req.Amount,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     res.Message,
		"buy_now_win": res.BuyNowWin,
		"amount":      res.Bid.Amount,
	})
}

// buyNow is the network-exposed settlement trigger: POST {auctionId, buyerId}
// → 200 on success, 400 when the auction cannot be finalized, 405 on wrong
// method (fiber answers that for registered paths), 500 on unexpected error.
func (h *Handler) buyNow(c *fiber.Ctx) error {
	var req buyNowRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	auctionID, err := uuid.Parse(req.AuctionID)
	if err != nil {
		return badRequest(c, "auctionId and buyerId are required")
	}
	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		return badRequest(c, "auctionId and buyerId are required")
	}

	ok, err := h.svc.SettleByBuyNow(c.Context(), auctionID, buyerID)
	if err != nil {
		if isDomainError(err) {
			return badRequest(c, err.Error())
		}
		log.Error("buy-now settlement failed", zap.String("auctionID", auctionID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	if !ok {
		return badRequest(c, "auction could not be finalized by buy now")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) finalizeAuction(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}

	ok, err := h.svc.SettleByTime(c.Context(), auctionID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"finalized": ok})
}

func (h *Handler) createAuction(c *fiber.Ctx) error {
	var req createAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		return badRequest(c, "invalid seller id")
	}
	categoryID, err := optionalUUID(req.CategoryID)
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	auction, err := h.svc.CreateAuction(c.Context(), application.CreateAuctionInput{
		SellerID:      sellerID,
		CategoryID:    categoryID,
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      optionalString(req.ImageURL),
		StartingPrice: req.StartingPrice,
		BuyNowPrice:   req.BuyNowPrice,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAuctionResponse(auction))
}

func (h *Handler) editAuction(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}

	var req editAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	categoryID, err := optionalUUID(req.CategoryID)
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	auction, err := h.svc.EditAuction(c.Context(), application.EditAuctionInput{
		AuctionID:   auctionID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    optionalString(req.ImageURL),
		CategoryID:  categoryID,
		BuyNowPrice: req.BuyNowPrice,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAuctionResponse(auction))
}

func (h *Handler) deleteAuction(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	if err := h.svc.DeleteAuction(c.Context(), auctionID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) listActiveAuctions(c *fiber.Ctx) error {
	auctions, err := h.svc.ListActiveAuctions(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	resp := make([]auctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, toAuctionResponse(a))
	}
	return c.JSON(resp)
}

func (h *Handler) getAuction(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	view, err := h.svc.GetAuction(c.Context(), auctionID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAuctionDetailResponse(view))
}

func (h *Handler) getBidHistory(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	entries, err := h.svc.GetBidHistory(c.Context(), auctionID)
	if err != nil {
		return domainError(c, err)
	}
	resp := make([]bidHistoryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, bidHistoryResponse{
			Amount:    e.Amount,
			Bidder:    e.BidderLabel,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(resp)
}

func (h *Handler) listSellerAuctions(c *fiber.Ctx) error {
	sellerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	auctions, err := h.svc.ListSellerAuctions(c.Context(), sellerID)
	if err != nil {
		return domainError(c, err)
	}
	resp := make([]sellerAuctionResponse, 0, len(auctions))
	for _, sa := range auctions {
		entry := sellerAuctionResponse{auctionResponse: toAuctionResponse(sa.Auction)}
		if sa.Winner != nil {
			entry.Winner = &winnerResponse{
				BidderID: sa.Winner.BidderID,
				Amount:   sa.Winner.Amount,
				Name:     sa.Winner.Name,
				Email:    sa.Winner.Email,
			}
		}
		resp = append(resp, entry)
	}
	return c.JSON(resp)
}

func (h *Handler) listBidderBids(c *fiber.Ctx) error {
	bidderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	bids, err := h.svc.ListBidderBids(c.Context(), bidderID)
	if err != nil {
		return domainError(c, err)
	}
	resp := make([]bidderBidResponse, 0, len(bids))
	for _, bb := range bids {
		resp = append(resp, bidderBidResponse{
			AuctionID:    bb.Auction.ID,
			AuctionTitle: bb.Auction.Title,
			Status:       string(bb.Auction.Status),
			Amount:       bb.Bid.Amount,
			CreatedAt:    bb.Bid.CreatedAt,
			IsWinner:     bb.IsWinner,
		})
	}
	return c.JSON(resp)
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	categories, err := h.svc.ListCategories(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	resp := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toCategoryResponse(cat))
	}
	return c.JSON(resp)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	category, err := h.svc.CreateCategory(c.Context(), req.Name, optionalString(req.Description), optionalString(req.Emoji))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category))
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	if err := h.svc.DeleteCategory(c.Context(), categoryID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid profile id")
	}
	profile, err := h.svc.GetProfile(c.Context(), profileID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(profileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Anonymous: profile.Anonymous,
	})
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid profile id")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	profile, err := h.svc.UpdateProfile(c.Context(), profileID, req.FullName, req.Anonymous)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(profileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Anonymous: profile.Anonymous,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// domainError maps domain errors to HTTP statuses: not-found errors to 404,
// validation errors to 400, everything else to a generic 500.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case isDomainError(err):
		return badRequest(c, err.Error())
	default:
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrAuctionNotActive,
		domain.ErrAuctionEnded,
		domain.ErrOwnAuctionBid,
		domain.ErrBidTooLow,
		domain.ErrInvalidAmount,
		domain.ErrNoBids,
		domain.ErrMissingFields,
		domain.ErrInvalidPrice,
		domain.ErrBuyNowTooLow,
		domain.ErrBuyNowBelowCurrent,
		domain.ErrAuctionHasBids,
		domain.ErrCategoryInUse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
