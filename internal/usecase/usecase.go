package usecase

import "context"

type CirUC interface {
	RetrieveComplementary(ctx context.Context, req *CirReq) (*CirRes, error)
}

type WardrobeUC interface {
	AddItem(ctx context.Context, req *AddItemReq) (*AddItemRes, error)
	RetrieveUserCIR(ctx context.Context, req *UserCirReq) (*UserCirRes, error)
	GenerateOutfit(ctx context.Context, req *OutfitReq) (*OutfitRes, error)
}

type StylistUC interface {
	Recommend(req *StylistReq) *StylistRes
}
