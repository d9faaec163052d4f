// Package accrue is a client SDK for the oneshot accounting protocol:
// reserve usage credit from a remote billing backend before doing work,
// then report the actual consumed amount afterwards. The backend ledger is
// never charged for work that did not happen: if the work fails, the usage
// report is skipped and the original error propagates.
//
//	factory, err := accrue.New(
//	    accrue.WithBaseURL("http://accounting.internal:8100"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer factory.Close()
//
//	err = factory.Oneshot(ctx, accrue.SubtypeMLLLM, projID, 30,
//	    func(ctx context.Context, s *accrue.Session) error {
//	        out, err := doBillableWork(ctx)
//	        if err != nil {
//	            return err // usage is not reported
//	        }
//	        return s.SetCount(out.Tokens)
//	    })
//
// Each Session performs at most one reservation and at most one usage
// report. A Session is single-owner and not safe for concurrent use; the
// Factory and its pooled transport are.
package accrue
